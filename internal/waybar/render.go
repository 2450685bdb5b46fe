package waybar

import (
	"encoding/json"
	"fmt"
)

// Output is one line of waybar's custom-module JSON protocol. Alt selects
// an entry of the module's format-icons.
type Output struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

func Encode(output Output) ([]byte, error) {
	payload, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("marshal waybar output: %w", err)
	}
	return payload, nil
}
