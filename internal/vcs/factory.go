package vcs

import "fmt"

// Factory creates VCS instances based on detected type and preferences.
type Factory struct {
	// preferredType specifies which VCS to prefer in colocated repos
	preferredType Type
}

// NewFactory creates a new VCS factory with the specified options.
//
// Default behavior: prefer git for colocated repos (overridable with
// the GITWATCH_VCS environment variable).
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		preferredType: "",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FactoryOption configures the factory
type FactoryOption func(*Factory)

// WithPreferredType sets the preferred VCS type for colocated repos
func WithPreferredType(t Type) FactoryOption {
	return func(f *Factory) {
		f.preferredType = t
	}
}

// Create creates a VCS instance for the given path.
//
// The factory will:
//  1. Detect the VCS type at the path
//  2. Pick an implementation (honoring preference for colocated repos)
//  3. Create it through the registry
func (f *Factory) Create(path string) (VCS, error) {
	result, err := DetectWithAvailability(path)
	if err != nil {
		return nil, err
	}

	implType := f.determineImplementationType(result)

	constructor := getConstructor(implType)
	if constructor == nil {
		return nil, fmt.Errorf("no registered constructor for VCS type: %s (available: %v)", implType, RegisteredTypes())
	}

	v, err := constructor(result.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s VCS instance: %w", implType, err)
	}

	return v, nil
}

// determineImplementationType decides which VCS implementation to use
// based on detection results and factory preferences.
func (f *Factory) determineImplementationType(result *DetectionResult) Type {
	switch result.Type {
	case TypeGit, TypeJJ:
		return result.Type
	case TypeColocate:
		preferred := f.preferredType
		if preferred == "" {
			preferred = PreferredVCS()
		}

		switch preferred {
		case TypeJJ:
			if result.HasJJ && IsJJAvailable() {
				return TypeJJ
			}
			if result.HasGit && IsGitAvailable() {
				return TypeGit
			}
		case TypeGit:
			if result.HasGit && IsGitAvailable() {
				return TypeGit
			}
			if result.HasJJ && IsJJAvailable() {
				return TypeJJ
			}
		}

		return TypeGit
	default:
		return TypeGit
	}
}

// ===================
// Convenience Functions
// ===================

// Get returns a VCS instance for the current directory using default options.
func Get() (VCS, error) {
	return NewFactory().Create(".")
}

// GetForPath returns a VCS instance for the specified path.
// This is the main entry point for gitwatch commands.
func GetForPath(path string) (VCS, error) {
	return NewFactory().Create(path)
}

// GetWithPreference returns a VCS instance with a specific type preference.
// Useful when a command needs to force a particular VCS backend.
func GetWithPreference(path string, preferred Type) (VCS, error) {
	return NewFactory(WithPreferredType(preferred)).Create(path)
}
