package session

// SpineMode selects how spine points are sampled in Mode3.
type SpineMode int

const (
	// PiecewiseLinear commits a section per left click; a right click
	// commits the final one.
	PiecewiseLinear SpineMode = iota
	// Continuous commits a section whenever the pointer has travelled
	// far enough from the last committed spine point; a left click
	// commits the final one.
	Continuous
)

// SpineConstraint restricts how the live chord may move.
type SpineConstraint int

const (
	// ConstraintNone lets the chord bend freely with the sketched path.
	ConstraintNone SpineConstraint = iota
	// StraightPlanar translates the chord without rotation, keeping the
	// cylinder straight.
	StraightPlanar
)

// SectionConstraint describes how section radii may vary along the
// spine.
type SectionConstraint int

const (
	SectionConstant SectionConstraint = iota
	SectionLinear
)

// ComponentType is the family of the modelled component. Only
// generalized cylinders are implemented; the other values are reserved.
type ComponentType int

const (
	ComponentGeneralizedCylinder ComponentType = iota
	ComponentSphere
	ComponentCuboid
)

// EstimationPolicy selects the back-projection constraint used when
// sections are added.
type EstimationPolicy int

const (
	// PolicyFixedDepth pins every section's center to the default
	// sketching depth.
	PolicyFixedDepth EstimationPolicy = iota
	// PolicyOrthogonality additionally forces the first section's plane
	// perpendicular to the initial sketch axis.
	PolicyOrthogonality
	// PolicyOrthographic uses the cheap foreshortening-free
	// approximation.
	PolicyOrthographic
)

// RenderingType is a presentation hint handed to the rendering
// collaborator.
type RenderingType int

const (
	RenderTriangleStrip RenderingType = iota
	RenderWireframe
	RenderPoints
)

// Config holds the per-session modelling knobs.
type Config struct {
	SpineMode         SpineMode
	SpineConstraint   SpineConstraint
	SectionConstraint SectionConstraint
	ComponentType     ComponentType
	Policy            EstimationPolicy
	Rendering         RenderingType

	// Segments is the ring resolution of swept surfaces.
	Segments int
	// ContinuousThresholdSq is the squared pointer travel (device
	// pixels) that auto-commits a section in Continuous mode.
	ContinuousThresholdSq float64
}

// DefaultConfig returns the default modelling configuration: perspective
// fixed-depth estimation over a piecewise-linear unconstrained spine.
func DefaultConfig() Config {
	return Config{
		SpineMode:             PiecewiseLinear,
		SpineConstraint:       ConstraintNone,
		SectionConstraint:     SectionConstant,
		ComponentType:         ComponentGeneralizedCylinder,
		Policy:                PolicyFixedDepth,
		Rendering:             RenderTriangleStrip,
		Segments:              32,
		ContinuousThresholdSq: 100,
	}
}
