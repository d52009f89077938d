package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zakaut/zakaut/internal/cache"
	"github.com/zakaut/zakaut/internal/model"
)

// Loader reads source documents from disk and turns them into immutable
// Document records. Parsed text is cached by path+mtime so repeated runs
// over the same directory skip re-parsing.
type Loader struct {
	maxFileBytes int64
	cache        cache.Cache
	cacheTTL     time.Duration
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(maxFileBytes int64, c cache.Cache, cacheTTL time.Duration) *Loader {
	return &Loader{
		maxFileBytes: maxFileBytes,
		cache:        c,
		cacheTTL:     cacheTTL,
	}
}

// LoadDir loads every supported document in a directory (non-recursive).
// Unreadable or oversized files are skipped with a warning instead of
// failing the run. Results are ordered by display name.
func (l *Loader) LoadDir(dir string) ([]model.Document, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory: %w", err)
	}

	var docs []model.Document
	var warnings []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !IsSupportedExtension(name) {
			continue
		}

		doc, err := l.LoadFile(filepath.Join(dir, name))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped %s: %v", name, err))
			continue
		}
		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].DisplayName < docs[j].DisplayName })

	return docs, warnings, nil
}

// LoadFile loads and parses a single document.
func (l *Loader) LoadFile(path string) (*model.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if l.maxFileBytes > 0 && info.Size() > l.maxFileBytes {
		return nil, fmt.Errorf("file exceeds size limit (%d > %d bytes)", info.Size(), l.maxFileBytes)
	}

	parsed, err := l.parse(path, info.ModTime())
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	docType := DetectDocType(name, parsed.Text)

	return &model.Document{
		ID:          documentID(name),
		DisplayName: name,
		DocType:     docType,
		Text:        parsed.Text,
		PageTexts:   parsed.Pages,
		PageCount:   len(parsed.Pages),
	}, nil
}

// FromReader parses an in-memory upload into a Document. Serve mode
// uses this path; no caching is involved.
func FromReader(r io.Reader, displayName string) (*model.Document, error) {
	parser, err := ForFile(displayName)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(r, displayName)
	if err != nil {
		return nil, err
	}

	return &model.Document{
		ID:          documentID(displayName),
		DisplayName: displayName,
		DocType:     DetectDocType(displayName, parsed.Text),
		Text:        parsed.Text,
		PageTexts:   parsed.Pages,
		PageCount:   len(parsed.Pages),
	}, nil
}

func (l *Loader) parse(path string, modTime time.Time) (*ParsedDocument, error) {
	key := cache.CacheKey(path, modTime)

	if l.cache != nil {
		if raw, found := l.cache.Get(key); found {
			var parsed ParsedDocument
			if err := json.Unmarshal(raw, &parsed); err == nil {
				return &parsed, nil
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parser, err := ForFile(path)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if raw, err := json.Marshal(parsed); err == nil {
			_ = l.cache.Set(key, raw, l.cacheTTL)
		}
	}

	return parsed, nil
}

// documentID derives a short stable identifier from the display name.
func documentID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return "doc-" + hex.EncodeToString(sum[:])[:6]
}

// docTypeKeywords maps bilingual filename/content markers to a document
// type. Order matters: the first matching entry wins.
var docTypeKeywords = []struct {
	docType  model.DocType
	keywords []string
}{
	{model.DocTypeSchedule, []string{
		"schedule of benefits", "benefit schedule", "schedule",
		"לוח תגמולים", "דף פרטי ביטוח", "רשימת הפוליסה",
	}},
	{model.DocTypeClaimForm, []string{
		"claim form", "טופס תביעה",
	}},
	{model.DocTypeEndorsement, []string{
		"endorsement", "rider", "נספח", "תוספת לפוליסה",
	}},
	{model.DocTypePolicy, []string{
		"policy", "terms and conditions", "פוליסה", "תנאים כלליים",
	}},
	{model.DocTypeCorrespondence, []string{
		"letter", "notice", "מכתב", "הודעה למבוטח",
	}},
}

// DetectDocType classifies a document from its display name, falling
// back to the opening of its text. Unrecognized documents stay unknown
// rather than being guessed as policies.
func DetectDocType(displayName, text string) model.DocType {
	name := strings.ToLower(displayName)
	for _, entry := range docTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.docType
			}
		}
	}

	head := strings.ToLower(text)
	if len(head) > 600 {
		head = head[:600]
	}
	for _, entry := range docTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(head, kw) {
				return entry.docType
			}
		}
	}

	return model.DocTypeUnknown
}
