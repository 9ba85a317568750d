package otfanalyze

import (
	"github.com/nsip/otf-analyze/internal/text"
	"github.com/nsip/otf-analyze/internal/util"
)

//
// functional options for service configuration; any options left
// blank are filled with sensible defaults (auto-generated name/id,
// auto-assigned port)
//
type Option func(*OtfAnalyzeService) error

func (s *OtfAnalyzeService) setOptions(options ...Option) error {

	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}

	return s.setDefaults()
}

func (s *OtfAnalyzeService) setDefaults() error {

	if s.serviceName == "" {
		s.serviceName = util.GenerateName()
	}
	if s.serviceID == "" {
		s.serviceID = util.GenerateID()
	}
	if s.serviceHost == "" {
		s.serviceHost = "localhost"
	}
	if s.servicePort == 0 {
		port, err := util.AvailablePort()
		if err != nil {
			return err
		}
		s.servicePort = port
	}
	if s.artifactDir == "" {
		s.artifactDir = "./artifacts"
	}
	if s.encoderModel == "" {
		s.encoderModel = text.DefaultModel
	}

	return nil
}

//
// the name of this service instance
//
func Name(name string) Option {
	return func(s *OtfAnalyzeService) error {
		s.serviceName = name
		return nil
	}
}

//
// the id of this service instance
//
func ID(id string) Option {
	return func(s *OtfAnalyzeService) error {
		s.serviceID = id
		return nil
	}
}

//
// the host address to run this service on
//
func Host(host string) Option {
	return func(s *OtfAnalyzeService) error {
		s.serviceHost = host
		return nil
	}
}

//
// the port to run this service on
//
func Port(port int) Option {
	return func(s *OtfAnalyzeService) error {
		s.servicePort = port
		return nil
	}
}

//
// directory the classifier / label-reference / difficulty artifacts
// are read from at startup
//
func ArtifactDir(dir string) Option {
	return func(s *OtfAnalyzeService) error {
		s.artifactDir = dir
		return nil
	}
}

//
// base url of the openai-compatible embeddings endpoint
//
func EncoderURL(url string) Option {
	return func(s *OtfAnalyzeService) error {
		s.encoderURL = url
		return nil
	}
}

//
// model name requested from the embeddings endpoint
//
func EncoderModel(model string) Option {
	return func(s *OtfAnalyzeService) error {
		s.encoderModel = model
		return nil
	}
}

//
// api key for the embeddings endpoint
//
func EncoderKey(key string) Option {
	return func(s *OtfAnalyzeService) error {
		s.encoderKey = key
		return nil
	}
}

//
// supply a pre-built encoder instead of the default openai-compatible
// adapter; used by tests and embedded deployments
//
func Encoder(enc text.Encoder) Option {
	return func(s *OtfAnalyzeService) error {
		s.enc = enc
		return nil
	}
}
