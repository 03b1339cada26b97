package workflow

import (
	"strconv"
	"strings"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
	"github.com/gitbchq/gitbchq/internal/textile"
)

// ResourceChoice is the answer to "what do you want to update?".
type ResourceChoice int

// Resource choices offered at the first prompt.
const (
	ChoiceSkip ResourceChoice = iota
	ChoiceMessage
	ChoiceTodo
)

// ParseResourceType interprets the answer to the resource type prompt.
// Answers are case-insensitive; numbers and names are both accepted.
func ParseResourceType(answer string) (ResourceChoice, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "1", "m", "message", "messages":
		return ChoiceMessage, nil
	case "2", "t", "todo", "todos", "todo item", "todo_item":
		return ChoiceTodo, nil
	case "0", "s", "skip", "none", "nothing":
		return ChoiceSkip, nil
	}
	return ChoiceSkip, gitbchqErrors.Wrapf(gitbchqErrors.ErrInvalidInput, "%q is not a resource type", answer)
}

// ParsePick converts a 1-based pick over n entries to a 0-based index.
func ParsePick(answer string, n int) (int, error) {
	pick, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, gitbchqErrors.Wrapf(gitbchqErrors.ErrInvalidInput, "%q is not a number", answer)
	}
	if pick < 1 || pick > n {
		return 0, gitbchqErrors.Wrapf(gitbchqErrors.ErrInvalidInput, "%d is outside [1, %d]", pick, n)
	}
	return pick - 1, nil
}

// ComposeBody joins the optional note and the commit log, converting the
// log's terminal colours to Textile.
func ComposeBody(note, commitLog string) string {
	formatted := textile.FromANSI(commitLog)
	if strings.TrimSpace(note) == "" {
		return formatted
	}
	return strings.Trim(note, "\r\n") + "\n\n" + formatted
}
