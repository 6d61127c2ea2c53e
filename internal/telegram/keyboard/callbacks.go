package keyboard

import (
	"fmt"
	"strings"

	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/wizard"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string // "dl"
	Value  string // The parameter
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}

// ParseExport splits the value of a download callback into format and analysis id
func (c *CallbackData) ParseExport() (entity.ResultFormat, string, error) {
	if c.Action != wizard.ExportCallback {
		return "", "", fmt.Errorf("not an export callback: %s", c.Action)
	}
	format, id, ok := strings.Cut(c.Value, ":")
	if !ok || id == "" {
		return "", "", fmt.Errorf("invalid export callback: %s", c.Value)
	}
	f := entity.ResultFormat(format)
	if err := f.Validate(); err != nil {
		return "", "", err
	}
	return f, id, nil
}
