package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memvault/memory-vault/internal/model"
)

func mkMemories(n int) []*model.Memory {
	out := make([]*model.Memory, n)
	for i := range out {
		out[i] = &model.Memory{MemoryType: "fact", Content: fmt.Sprintf("fact %d", i)}
	}
	return out
}

func mkSections(n int) []*model.PRDSection {
	out := make([]*model.PRDSection, n)
	for i := range out {
		out[i] = &model.PRDSection{Title: fmt.Sprintf("Section %d", i), Content: "body", SectionOrder: i + 1}
	}
	return out
}

func TestAssemble_RendersBlocksAndCounts(t *testing.T) {
	f := &fakeStore{
		memories: []*model.Memory{
			{MemoryType: "preference", Content: "prefers tabs"},
			{MemoryType: "fact", Content: "works at acme"},
		},
		sections: []*model.PRDSection{
			{Title: "Goals", Content: "ship the thing"},
		},
	}
	a := NewAssembler(f, zerolog.Nop())

	frag := a.Assemble(context.Background(), "u1", "p1")
	assert.Equal(t, 2, frag.MemoriesUsed)
	assert.Equal(t, 1, frag.SectionsUsed)
	assert.Contains(t, frag.Context, "**RELEVANT MEMORIES:**")
	assert.Contains(t, frag.Context, "- [preference] prefers tabs")
	assert.Contains(t, frag.Context, "- [fact] works at acme")
	assert.Contains(t, frag.Context, "**PROJECT PRD SECTIONS:**")
	assert.Contains(t, frag.Context, "### Goals\nship the thing")
	// memories render before sections
	assert.Less(t, strings.Index(frag.Context, "MEMORIES"), strings.Index(frag.Context, "PRD SECTIONS"))
}

func TestAssemble_NoProjectSkipsSections(t *testing.T) {
	f := &fakeStore{
		memories: []*model.Memory{{MemoryType: "fact", Content: "x"}},
		sections: mkSections(3),
	}
	a := NewAssembler(f, zerolog.Nop())

	frag := a.Assemble(context.Background(), "u1", "")
	assert.Equal(t, 0, frag.SectionsUsed)
	assert.NotContains(t, frag.Context, "PRD SECTIONS")
	// store saw the unscoped query
	assert.Equal(t, "", f.lastProjectID)
}

func TestAssemble_Limits(t *testing.T) {
	f := &fakeStore{
		memories: mkMemories(25),
		sections: mkSections(9),
	}
	a := NewAssembler(f, zerolog.Nop())

	frag := a.Assemble(context.Background(), "u1", "p1")
	assert.Equal(t, MaxContextMemories, frag.MemoriesUsed)
	assert.Equal(t, MaxContextSections, frag.SectionsUsed)
}

func TestAssemble_SectionBodyCappedInPrompt(t *testing.T) {
	f := &fakeStore{
		sections: []*model.PRDSection{
			{Title: "Big", Content: strings.Repeat("y", 4*MaxRenderedSectionChars)},
		},
	}
	a := NewAssembler(f, zerolog.Nop())

	frag := a.Assemble(context.Background(), "u1", "p1")
	assert.Contains(t, frag.Context, strings.Repeat("y", MaxRenderedSectionChars)+"\n")
	assert.NotContains(t, frag.Context, strings.Repeat("y", MaxRenderedSectionChars+1))
}

func TestAssemble_FetchFailuresAreNonFatal(t *testing.T) {
	f := &fakeStore{
		memoriesErr: errors.New("db down"),
		sectionsErr: errors.New("db down"),
	}
	a := NewAssembler(f, zerolog.Nop())

	frag := a.Assemble(context.Background(), "u1", "p1")
	assert.Equal(t, 0, frag.MemoriesUsed)
	assert.Equal(t, 0, frag.SectionsUsed)
	assert.NotContains(t, frag.Context, "MEMORIES")
	assert.NotContains(t, frag.Context, "PRD SECTIONS")
}

func TestFragment_SystemPrompt(t *testing.T) {
	frag := Fragment{Context: "\n\n**RELEVANT MEMORIES:**\n- [fact] x\n"}
	prompt := frag.SystemPrompt()
	require.True(t, strings.HasPrefix(prompt, systemPreamble))
	assert.Contains(t, prompt, frag.Context)
	assert.True(t, strings.HasSuffix(prompt, systemInstructions))
}

func TestRecorder_WritesPairSharingUsage(t *testing.T) {
	f := &fakeStore{}
	r := NewRecorder(f, zerolog.Nop())
	used := model.ContextUsage{MemoriesCount: 3, PRDSectionsCount: 1}

	r.Record(context.Background(), "u1", "p1", "question", "answer", used)

	require.Len(t, f.recorded, 1)
	turns := f.recorded[0]
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "question", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.Equal(t, "answer", turns[1].Content)
	assert.Equal(t, used, turns[0].ContextUsed)
	assert.Equal(t, used, turns[1].ContextUsed)
	require.NotNil(t, turns[0].ProjectID)
	assert.Equal(t, "p1", *turns[0].ProjectID)
	assert.NotEmpty(t, turns[0].TurnID)
	assert.NotEqual(t, turns[0].TurnID, turns[1].TurnID)
}

func TestRecorder_NilProjectWhenUnscoped(t *testing.T) {
	f := &fakeStore{}
	r := NewRecorder(f, zerolog.Nop())

	r.Record(context.Background(), "u1", "", "q", "a", model.ContextUsage{})

	require.Len(t, f.recorded, 1)
	assert.Nil(t, f.recorded[0][0].ProjectID)
}

func TestRecorder_FailureIsSwallowed(t *testing.T) {
	f := &fakeStore{recordErr: errors.New("insert failed")}
	r := NewRecorder(f, zerolog.Nop())

	// must not panic or propagate
	r.Record(context.Background(), "u1", "", "q", "a", model.ContextUsage{})
	assert.Empty(t, f.recorded)
}
