// Package passenger defines the passenger input record and the static
// category tables used to encode it for the model.
package passenger

// Class is the passenger's ticket class.
type Class string

const (
	ClassFirst  Class = "First"
	ClassSecond Class = "Second"
	ClassThird  Class = "Third"
)

// Sex is the passenger's sex as recorded in the manifest.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Port is the port of embarkation.
type Port string

const (
	PortSouthampton Port = "Southampton"
	PortCherbourg   Port = "Cherbourg"
	PortQueenstown  Port = "Queenstown"
)

// Fixed category-to-code tables. The codes are part of the model contract
// and must match the encoding the artifact was trained with.
var classCodes = map[Class]float64{
	ClassFirst:  1,
	ClassSecond: 2,
	ClassThird:  3,
}

var sexCodes = map[Sex]float64{
	SexMale:   0,
	SexFemale: 1,
}

var portCodes = map[Port]float64{
	PortSouthampton: 0,
	PortCherbourg:   1,
	PortQueenstown:  2,
}

// Numeric range limits.
const (
	MinAge = 0.0
	MaxAge = 120.0
)

// NumFeatures is the width of the encoded feature vector.
const NumFeatures = 7

// Input is one raw form submission. It is validated, encoded and discarded;
// nothing here is persisted.
type Input struct {
	Class           Class   `json:"class"`
	Sex             Sex     `json:"sex"`
	Age             float64 `json:"age"`
	SiblingsSpouses int     `json:"siblings_spouses"`
	ParentsChildren int     `json:"parents_children"`
	Fare            float64 `json:"fare"`
	EmbarkPort      Port    `json:"embark_port"`
}

// FeatureVector is the normalized numeric encoding of an Input, in the
// fixed order [class, sex, age, sibsp, parch, fare, embarked]. It can only
// be produced by Validate.
type FeatureVector []float64

// Classes returns the allowed ticket classes in display order.
func Classes() []Class {
	return []Class{ClassFirst, ClassSecond, ClassThird}
}

// Sexes returns the allowed sex values in display order.
func Sexes() []Sex {
	return []Sex{SexMale, SexFemale}
}

// Ports returns the allowed embarkation ports in display order.
func Ports() []Port {
	return []Port{PortSouthampton, PortCherbourg, PortQueenstown}
}
