package gemini

import "github.com/phrazzld/edu-api/internal/generation"

// promptData represents the data passed to the word problem prompt template
type promptData struct {
	Age           int
	Count         int
	Rules         []string
	MinAnswer     float64
	MaxAnswer     float64
	Operations    []string
	SubTypes      []string
	AllowDecimals bool
}

// explainPromptData represents the data passed to the explanation prompt template
type explainPromptData struct {
	Age      int
	Question string
	Answer   string
	Type     string
}

// ResponseSchema represents the expected structure of a word problem reply
type ResponseSchema struct {
	// Problems is the list of candidate word problems
	Problems []generation.Candidate `json:"problems"`
}

// ExplanationSchema represents the expected structure of an explanation reply
type ExplanationSchema struct {
	Explanation string   `json:"explanation"`
	Tips        []string `json:"tips"`
	Example     *string  `json:"example"`
}
