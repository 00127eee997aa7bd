package gen

var (
	// FeatureEquality generates value equality for entities.
	// Java entities get equals and hashCode based on java.util.Objects,
	// Go entities get an Equal method.
	FeatureEquality = Feature{
		Name:        "equality",
		Stage:       Stable,
		Default:     false,
		Description: "Generates equals/hashCode (Java) or Equal (Go) comparing all fields of the entity chain",
	}

	// FeatureToString generates a textual representation of entities.
	FeatureToString = Feature{
		Name:        "tostring",
		Stage:       Stable,
		Default:     false,
		Description: "Generates toString (Java) or String (Go) listing all fields of the entity chain",
	}

	// FeatureBuilderSetters makes setters of mutable fields return the
	// receiver, which allows call chaining.
	FeatureBuilderSetters = Feature{
		Name:        "fluent",
		Stage:       Experimental,
		Default:     false,
		Description: "Setters of mutable fields return the receiver for call chaining",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureEquality,
		FeatureToString,
		FeatureBuilderSetters,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change shape.
	Experimental

	// Alpha features are complete but their output may still change.
	Alpha

	// Beta features have a stable output.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the lumigen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
