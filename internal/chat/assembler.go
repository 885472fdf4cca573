package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/memvault/memory-vault/internal/prd"
	"github.com/memvault/memory-vault/internal/store"
)

const (
	// MaxContextMemories bounds how many recent memories feed a chat turn.
	MaxContextMemories = 10
	// MaxContextSections bounds how many PRD sections feed a chat turn.
	MaxContextSections = 5
	// MaxRenderedSectionChars caps each section body in the rendered prompt,
	// independent of the stored cap.
	MaxRenderedSectionChars = 1000
)

const systemPreamble = `You are an intelligent AI assistant with access to the user's memory vault and project documentation. Use the provided context to give personalized, contextual responses.`

const systemInstructions = `Remember to:
- Reference memories when relevant
- Use PRD context for project-specific questions
- Be helpful, concise, and professional
- Format code blocks with language tags`

// Fragment is the rendered context block injected into a chat request's
// system instructions, with counts of what was actually rendered.
type Fragment struct {
	Context      string
	MemoriesUsed int
	SectionsUsed int
}

// SystemPrompt composes the fixed preamble, the context blocks and the fixed
// instructions into the full system prompt for one turn.
func (f Fragment) SystemPrompt() string {
	return systemPreamble + "\n" + f.Context + "\n\n" + systemInstructions
}

// Assembler fetches recent memories and PRD sections and renders them into a
// prompt fragment. It never fails: fetch errors are logged and degrade to
// empty blocks.
type Assembler struct {
	store store.Store
	log   zerolog.Logger
}

func NewAssembler(s store.Store, log zerolog.Logger) *Assembler {
	return &Assembler{store: s, log: log}
}

// Assemble builds the context fragment for one chat turn. An empty projectID
// restricts memory candidates to global memories and skips PRD sections.
func (a *Assembler) Assemble(ctx context.Context, userID, projectID string) Fragment {
	var sb strings.Builder

	memories, err := a.store.Memories().ListRecent(ctx, userID, projectID, MaxContextMemories)
	if err != nil {
		a.log.Warn().Err(err).Str("user_id", userID).Msg("memories fetch failed; continuing without memories")
		memories = nil
	}
	if len(memories) > 0 {
		sb.WriteString("\n\n**RELEVANT MEMORIES:**\n")
		for _, mem := range memories {
			fmt.Fprintf(&sb, "- [%s] %s\n", mem.MemoryType, mem.Content)
		}
	}

	sectionsUsed := 0
	if projectID != "" {
		sections, err := a.store.Sections().ListByProject(ctx, userID, projectID, MaxContextSections)
		if err != nil {
			a.log.Warn().Err(err).Str("project_id", projectID).Msg("prd sections fetch failed; continuing without sections")
			sections = nil
		}
		if len(sections) > 0 {
			sb.WriteString("\n\n**PROJECT PRD SECTIONS:**\n")
			for _, sec := range sections {
				fmt.Fprintf(&sb, "\n### %s\n%s\n", sec.Title, prd.Truncate(sec.Content, MaxRenderedSectionChars))
			}
		}
		sectionsUsed = len(sections)
	}

	return Fragment{
		Context:      sb.String(),
		MemoriesUsed: len(memories),
		SectionsUsed: sectionsUsed,
	}
}
