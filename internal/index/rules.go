package index

import "regexp"

// Language tags which surface form a rule matched
type Language string

const (
	LangHebrew  Language = "hebrew"
	LangEnglish Language = "english"
)

// ClauseType is the structural marker category
type ClauseType string

const (
	ClauseSection    ClauseType = "section"
	ClauseChapter    ClauseType = "chapter"
	ClauseClause     ClauseType = "clause"
	ClauseArticle    ClauseType = "article"
	ClauseParagraph  ClauseType = "paragraph"
	ClauseAppendix   ClauseType = "appendix"
	ClauseExclusion  ClauseType = "exclusion"
	ClauseDefinition ClauseType = "definition"
	ClauseCondition  ClauseType = "condition"
)

// clauseRule is one declarative matching rule: pattern + type + language.
// The first capture group must be the marker number. Rules are compiled
// once at initialization and treated as immutable configuration.
type clauseRule struct {
	kind    ClauseType
	lang    Language
	pattern *regexp.Regexp
}

// Go's \b is ASCII-only, so the Hebrew patterns rely on the keyword itself
// rather than word boundaries.
var clauseRules = []clauseRule{
	// Hebrew surface forms
	{ClauseSection, LangHebrew, regexp.MustCompile(`סעיף\s+(\d+(?:\.\d+)*[א-ת]?)`)},
	{ClauseChapter, LangHebrew, regexp.MustCompile(`פרק\s+([א-ת]'?|\d+)`)},
	{ClauseClause, LangHebrew, regexp.MustCompile(`תת[-־ ]סעיף\s+(\d+(?:\.\d+)*)`)},
	{ClauseArticle, LangHebrew, regexp.MustCompile(`סימן\s+([א-ת]'?|\d+)`)},
	{ClauseParagraph, LangHebrew, regexp.MustCompile(`פסקה\s+(\d+(?:\.\d+)*)`)},
	{ClauseAppendix, LangHebrew, regexp.MustCompile(`נספח\s+([א-ת]'?|\d+)`)},
	{ClauseExclusion, LangHebrew, regexp.MustCompile(`חריג\s+(\d+)`)},
	{ClauseDefinition, LangHebrew, regexp.MustCompile(`הגדרה\s+(\d+)`)},
	{ClauseCondition, LangHebrew, regexp.MustCompile(`תנאי\s+(\d+)`)},

	// English surface forms
	{ClauseSection, LangEnglish, regexp.MustCompile(`(?i)\bsection\s+(\d+(?:\.\d+)*)`)},
	{ClauseChapter, LangEnglish, regexp.MustCompile(`(?i)\bchapter\s+(\d+|[IVX]+\b)`)},
	{ClauseClause, LangEnglish, regexp.MustCompile(`(?i)\bclause\s+(\d+(?:\.\d+)*)`)},
	{ClauseArticle, LangEnglish, regexp.MustCompile(`(?i)\barticle\s+(\d+(?:\.\d+)*)`)},
	{ClauseParagraph, LangEnglish, regexp.MustCompile(`(?i)\bparagraph\s+(\d+(?:\.\d+)*)`)},
	{ClauseAppendix, LangEnglish, regexp.MustCompile(`(?i)\b(?:appendix|annex|schedule)\s+([A-Z0-9]+\b)`)},
	{ClauseExclusion, LangEnglish, regexp.MustCompile(`(?i)\bexclusion\s+(\d+(?:\.\d+)*)`)},
	{ClauseDefinition, LangEnglish, regexp.MustCompile(`(?i)\bdefinition\s+(\d+)`)},
	{ClauseCondition, LangEnglish, regexp.MustCompile(`(?i)\bcondition\s+(\d+(?:\.\d+)*)`)},
}

// sectionLabels renders a clause reference into a human-readable section
// path, keyed by type then language.
var sectionLabels = map[ClauseType]map[Language]string{
	ClauseSection:    {LangHebrew: "סעיף %s", LangEnglish: "Section %s"},
	ClauseChapter:    {LangHebrew: "פרק %s", LangEnglish: "Chapter %s"},
	ClauseClause:     {LangHebrew: "תת-סעיף %s", LangEnglish: "Clause %s"},
	ClauseArticle:    {LangHebrew: "סימן %s", LangEnglish: "Article %s"},
	ClauseParagraph:  {LangHebrew: "פסקה %s", LangEnglish: "Paragraph %s"},
	ClauseAppendix:   {LangHebrew: "נספח %s", LangEnglish: "Appendix %s"},
	ClauseExclusion:  {LangHebrew: "חריג %s", LangEnglish: "Exclusion %s"},
	ClauseDefinition: {LangHebrew: "הגדרה %s", LangEnglish: "Definition %s"},
	ClauseCondition:  {LangHebrew: "תנאי %s", LangEnglish: "Condition %s"},
}

// hebrewTopicWords are section-topic openers that promote a line to a
// level-1 heading.
var hebrewTopicWords = []string{
	"כיסוי",
	"כיסויים",
	"חריגים",
	"הגדרות",
	"תנאים כלליים",
	"תגמולי ביטוח",
	"השתתפות עצמית",
	"תקופת הביטוח",
	"תקופת אכשרה",
	"ביטול הפוליסה",
	"הגשת תביעה",
	"הרחבות",
}
