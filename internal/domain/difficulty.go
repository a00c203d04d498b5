package domain

import "fmt"

// Supported age range. Ages outside it fall into the nearest bracket.
const (
	MinAge = 6
	MaxAge = 12
)

// Operation is an arithmetic operation a child may be given.
type Operation string

const (
	OpAddition       Operation = "+"
	OpSubtraction    Operation = "-"
	OpMultiplication Operation = "×"
	OpDivision       Operation = "÷"
	OpFraction       Operation = "fraction"
	OpDecimal        Operation = "decimal"
)

// Calibration is the set of generation parameters derived from an age.
type Calibration struct {
	MaxNumber  int
	Operations []Operation
	Difficulty Difficulty
}

// Allows reports whether op is among the calibrated operations.
func (c Calibration) Allows(op Operation) bool {
	for _, o := range c.Operations {
		if o == op {
			return true
		}
	}
	return false
}

// Calibrate returns the number range and operations for an age.
// The result is freshly allocated on each call.
func Calibrate(age int) Calibration {
	c := Calibration{Difficulty: DifficultyForAge(age)}

	switch {
	case age <= 6:
		c.MaxNumber = 20
		c.Operations = []Operation{OpAddition, OpSubtraction}
	case age == 7:
		c.MaxNumber = 50
		c.Operations = []Operation{OpAddition, OpSubtraction}
	case age <= 9:
		c.MaxNumber = 100
		c.Operations = []Operation{OpAddition, OpSubtraction, OpMultiplication}
	case age == 10:
		c.MaxNumber = 1000
		c.Operations = []Operation{OpAddition, OpSubtraction, OpMultiplication, OpDivision}
	default:
		c.MaxNumber = 10000
		c.Operations = []Operation{OpAddition, OpSubtraction, OpMultiplication, OpDivision, OpFraction, OpDecimal}
	}

	return c
}

// DifficultyForAge maps an age to its difficulty label.
func DifficultyForAge(age int) Difficulty {
	switch {
	case age <= 7:
		return DifficultyBeginner
	case age <= 9:
		return DifficultyIntermediate
	case age <= 11:
		return DifficultyAdvanced
	default:
		return DifficultyExpert
	}
}

// ClampAge limits age to MinAge..MaxAge.
func ClampAge(age int) int {
	if age < MinAge {
		return MinAge
	}
	if age > MaxAge {
		return MaxAge
	}
	return age
}

// CheckAge returns ErrAgeOutOfRange when age is outside MinAge..MaxAge.
func CheckAge(age int) error {
	if age < MinAge || age > MaxAge {
		return fmt.Errorf("%w: %d (supported %d-%d)", ErrAgeOutOfRange, age, MinAge, MaxAge)
	}
	return nil
}

// AgePolicy decides how out-of-range ages are handled.
type AgePolicy string

const (
	AgePolicyClamp  AgePolicy = "clamp"
	AgePolicyReject AgePolicy = "reject"
)

// Apply returns the age to use under the policy. Clamp never fails.
func (p AgePolicy) Apply(age int) (int, error) {
	if p == AgePolicyReject {
		if err := CheckAge(age); err != nil {
			return 0, err
		}
		return age, nil
	}
	return ClampAge(age), nil
}

// InitialSliceSize is the number of basic problems served synchronously for a
// batch of count problems: 30 % rounded down, at least one, at most count.
func InitialSliceSize(count int) int {
	if count <= 0 {
		return 0
	}
	n := count * 3 / 10
	if n < 1 {
		n = 1
	}
	return n
}
