// Package assistant builds writing-assistant prompts from note content,
// sends them to a text generator and turns accepted responses into notes.
// The editor core only ever hands over plain text and receives plain text.
package assistant

import (
	"fmt"
	"strings"

	"github.com/starford/notegenius/internal/apperr"
)

// Feature is one assistant action.
type Feature string

const (
	FeatureSummarize  Feature = "summarize"
	FeatureTodo       Feature = "todo"
	FeatureEmail      Feature = "email"
	FeatureExpand     Feature = "expand"
	FeatureKeywords   Feature = "keywords"
	FeatureGrammar    Feature = "grammar"
	FeatureTitle      Feature = "title"
	FeatureTranslate  Feature = "translate"
	FeatureAnalyze    Feature = "analyze"
	FeatureBrainstorm Feature = "brainstorm"
	FeatureChat       Feature = "chat"
)

// Info describes a feature for clients.
type Info struct {
	ID           Feature `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	RequiresNote bool    `json:"requires_note"`
}

// Features lists every feature in display order.
var Features = []Info{
	{FeatureSummarize, "Smart Summary", "Get intelligent summaries with key insights", true},
	{FeatureTodo, "Task Generator", "Convert text into prioritized action items", true},
	{FeatureEmail, "Email Composer", "Transform notes into professional emails", true},
	{FeatureExpand, "Idea Expander", "Elaborate concepts with examples and details", false},
	{FeatureKeywords, "Keyword Extractor", "Find and categorize important terms", true},
	{FeatureGrammar, "Writing Assistant", "Improve grammar, style, and clarity", true},
	{FeatureTitle, "Title Generator", "Create engaging titles and headlines", true},
	{FeatureTranslate, "Smart Translator", "Translate text while preserving meaning", true},
	{FeatureAnalyze, "Content Analyzer", "Analyze sentiment, tone, and themes", true},
	{FeatureBrainstorm, "Brainstorm Assistant", "Generate creative ideas and suggestions", false},
	{FeatureChat, "AI Chat", "Have intelligent conversations", false},
}

// Lookup returns the description of f.
func Lookup(f Feature) (Info, bool) {
	for _, info := range Features {
		if info.ID == f {
			return info, true
		}
	}
	return Info{}, false
}

// ParseFeature validates a feature name.
func ParseFeature(name string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := Lookup(f); !ok {
		return "", fmt.Errorf("assistant: unknown feature %q: %w", name, apperr.ErrInvalidInput)
	}
	return f, nil
}

const (
	systemPrompt = "You are NoteGenius AI, an assistant for a note-taking app. " +
		"Provide helpful, accurate, and well-formatted Markdown responses."
	chatSystemSuffix = " Answer questions about productivity, note-taking, organization, " +
		"and help users be more efficient with their work."
	checklistInstruction = "\n\nWrite every action item as a Markdown checklist line of the form `- [ ] <task>`."
	defaultLanguage      = "Spanish"
)

// Request is the text a feature works on. NoteContent is the selected
// note; Input is free text typed by the user.
type Request struct {
	NoteContent string `json:"note_content"`
	Input       string `json:"input"`
}

// Prompt is a system/user message pair.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the prompt for f. Features that need a note fail
// with ErrInvalidInput when none is given; chat needs Input.
func BuildPrompt(f Feature, req Request) (Prompt, error) {
	info, ok := Lookup(f)
	if !ok {
		return Prompt{}, fmt.Errorf("assistant: unknown feature %q: %w", f, apperr.ErrInvalidInput)
	}
	note := strings.TrimSpace(req.NoteContent)
	input := strings.TrimSpace(req.Input)
	if info.RequiresNote && note == "" {
		return Prompt{}, fmt.Errorf("assistant: %s needs note content: %w", f, apperr.ErrInvalidInput)
	}

	// Idea features take typed input first and fall back to the note.
	subject := input
	if subject == "" {
		subject = note
	}
	if subject == "" {
		return Prompt{}, fmt.Errorf("assistant: %s needs input: %w", f, apperr.ErrInvalidInput)
	}

	p := Prompt{System: systemPrompt}
	switch f {
	case FeatureSummarize:
		p.User = "Please provide a comprehensive summary of the following note, highlighting key points and main ideas:\n\n" + note
	case FeatureTodo:
		p.User = "Analyze the following text and create a detailed, actionable to-do list with priorities and estimated time requirements." +
			checklistInstruction + "\n\n" + note
	case FeatureEmail:
		p.User = "Transform the following note into a professional, well-structured email with appropriate subject line, greeting, body, and closing:\n\n" + note
	case FeatureExpand:
		p.User = "Expand on the following idea with detailed explanations, examples, practical applications, and related concepts:\n\n" + subject
	case FeatureKeywords:
		p.User = "Extract and categorize key terms, topics, and important keywords from the following text. Organize them by relevance and provide brief explanations:\n\n" + note
	case FeatureGrammar:
		p.User = "Please review and improve the grammar, spelling, style, and clarity of the following text. Provide the corrected version and explain major changes:\n\n" + note
	case FeatureTitle:
		p.User = "Suggest 5 creative, engaging, and descriptive titles for the following content:\n\n" + note
	case FeatureTranslate:
		lang := input
		if lang == "" {
			lang = defaultLanguage
		}
		p.User = "Translate the following text to " + lang + " while maintaining the original meaning and tone:\n\n" + note
	case FeatureAnalyze:
		p.User = "Analyze the following text for sentiment, tone, key themes, and provide insights about the content:\n\n" + note
	case FeatureBrainstorm:
		p.User = "Based on the following topic or idea, generate creative brainstorming suggestions, related concepts, and actionable next steps." +
			checklistInstruction + "\n\n" + subject
	case FeatureChat:
		if input == "" {
			return Prompt{}, fmt.Errorf("assistant: chat needs input: %w", apperr.ErrInvalidInput)
		}
		p.System += chatSystemSuffix
		p.User = input
	}
	return p, nil
}
