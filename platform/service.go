package platform

// Service adapts a Backend to the service lifecycle so the hub opens the display after audio and closes it first
type Service struct {
	Backend Backend
	deps    []string
}

// NewService wraps b, deps names services that must be running before the display opens
func NewService(b Backend, deps ...string) *Service {
	return &Service{Backend: b, deps: deps}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "backend"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return s.deps
}

// Init implements service.Service, the display is acquired in Start
func (s *Service) Init(args ...any) error {
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	return s.Backend.Init()
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.Backend.Fini()
	return nil
}
