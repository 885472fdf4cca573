package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// memoryTypes lists the accepted memory classifications.
var memoryTypes = map[string]bool{
	"note":        true,
	"instruction": true,
	"preference":  true,
	"technical":   true,
	"prd":         true,
	"decision":    true,
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// -------- Request specific helpers ----------

// ChatMessage validates the message of a chat request.
func ChatMessage(message string) error {
	if err := NonEmpty("message", message); err != nil {
		return err
	}
	return MaxLen("message", message, 32000)
}

// CreateMemory validates input for creating a memory.
func CreateMemory(content, memoryType string) error {
	if err := NonEmpty("content", content); err != nil {
		return err
	}
	if err := MaxLen("content", content, 10000); err != nil {
		return err
	}
	if err := NonEmpty("memory_type", memoryType); err != nil {
		return err
	}
	if !memoryTypes[memoryType] {
		return fmt.Errorf("unknown memory_type %q", memoryType)
	}
	return nil
}

// ProviderKey validates input for storing a provider API key.
func ProviderKey(provider, key string) error {
	if provider != "claude" && provider != "openrouter" {
		return fmt.Errorf("provider must be claude or openrouter")
	}
	return NonEmpty("api_key", key)
}

// CreateUser validates input for creating a new user.
func CreateUser(email string) error {
	return Email(email)
}
