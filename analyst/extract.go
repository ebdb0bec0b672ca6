package analyst

import "encoding/json"

// FallbackText is shown when the proxy responds 200 but no known shape
// yields a generated text.
const FallbackText = "Unable to generate prediction at this time."

type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type wrappedCompletion struct {
	Data chatCompletion `json:"data"`
}

// The proxy relays the upstream body verbatim and guarantees no schema, so
// the generated text is probed through an ordered list of strategies.
var extractors = []func([]byte) (string, bool){
	fromChoices,
	fromDataWrapper,
}

// ExtractText probes the known response shapes in order and returns the
// first non-empty generated text.
func ExtractText(body []byte) (string, bool) {
	for _, extract := range extractors {
		if text, ok := extract(body); ok {
			return text, true
		}
	}
	return "", false
}

// fromChoices reads choices[0].message.content directly on the body.
func fromChoices(body []byte) (string, bool) {
	var payload chatCompletion
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	if len(payload.Choices) == 0 || payload.Choices[0].Message.Content == "" {
		return "", false
	}
	return payload.Choices[0].Message.Content, true
}

// fromDataWrapper reads the same path nested under a data wrapper.
func fromDataWrapper(body []byte) (string, bool) {
	var payload wrappedCompletion
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	if len(payload.Data.Choices) == 0 || payload.Data.Choices[0].Message.Content == "" {
		return "", false
	}
	return payload.Data.Choices[0].Message.Content, true
}
