//
// web service that analyses short free-text answers to open-ended
// questions - given the question, a reference ideal answer and the
// student's answer, the service reports semantic similarity to the
// ideal, a misconception label with confidence and risk, a normalised
// difficulty estimate for the question, a blended answer-quality score
// and a deterministic guidance string, plus chart-ready payloads for
// the companion presentation client.
// semantic judgement comes from a pretrained sentence encoder and
// pre-built classifier artifacts; this package is the orchestration
// around them.
//
package otfanalyze
