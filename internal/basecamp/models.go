package basecamp

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
)

// PatchContentType is the content type declared for attached patches.
const PatchContentType = "text/plain"

// Listing is an id-keyed collection that remembers server order.
type Listing[T any] struct {
	ids    []int
	values map[int]T
}

// NewListing creates an empty Listing.
func NewListing[T any]() *Listing[T] {
	return &Listing[T]{values: make(map[int]T)}
}

// Add stores value under id. A repeated id keeps its first position and
// takes the latest value.
func (l *Listing[T]) Add(id int, value T) {
	if _, ok := l.values[id]; !ok {
		l.ids = append(l.ids, id)
	}
	l.values[id] = value
}

// Len returns the number of entries.
func (l *Listing[T]) Len() int {
	return len(l.ids)
}

// IDs returns the ids in server order.
func (l *Listing[T]) IDs() []int {
	out := make([]int, len(l.ids))
	copy(out, l.ids)
	return out
}

// Get looks up an entry by id.
func (l *Listing[T]) Get(id int) (T, bool) {
	v, ok := l.values[id]
	return v, ok
}

// At returns the id and value at zero-based position i.
func (l *Listing[T]) At(i int) (int, T) {
	id := l.ids[i]
	return id, l.values[id]
}

// Message is a project message (a "post").
type Message struct {
	ID    int
	Title string
}

// TodoList groups todo items.
type TodoList struct {
	ID          int
	Name        string
	Description string
}

// TodoItem is a single entry of a todo list. Due is nil when no due date is set.
type TodoItem struct {
	ID      int
	Content string
	Due     *time.Time
}

// FileID is the opaque token returned by an upload.
type FileID string

// ResourceType names a kind of resource that accepts comments.
type ResourceType string

// Resource types that accept comments.
const (
	ResourceMessage  ResourceType = "message"
	ResourceTodoItem ResourceType = "todo_item"
)

// RouteKey returns the first route segment used for comments on this type.
func (t ResourceType) RouteKey() string {
	switch t {
	case ResourceMessage:
		return "posts"
	case ResourceTodoItem:
		return "todo_items"
	}
	return ""
}

// ResourceRef identifies the resource a comment is posted to.
type ResourceRef struct {
	Type ResourceType
	ID   int
}

// Attachment references an uploaded file.
type Attachment struct {
	FileID   FileID
	FileName string
}

// Comment is built in memory and sent once.
type Comment struct {
	Resource   ResourceRef
	Body       string
	Attachment *Attachment
}

type commentXML struct {
	XMLName     xml.Name        `xml:"comment"`
	Body        string          `xml:"body"`
	Attachments *attachmentsXML `xml:"attachments,omitempty"`
}

type attachmentsXML struct {
	File attachedFileXML `xml:"file"`
}

type attachedFileXML struct {
	File             string `xml:"file"`
	ContentType      string `xml:"content-type"`
	OriginalFilename string `xml:"original-filename"`
}

// BuildCommentXML renders the request document for a comment post.
func BuildCommentXML(body string, attachment *Attachment) ([]byte, error) {
	doc := commentXML{Body: body}
	if attachment != nil {
		doc.Attachments = &attachmentsXML{File: attachedFileXML{
			File:             string(attachment.FileID),
			ContentType:      PatchContentType,
			OriginalFilename: attachment.FileName,
		}}
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, gitbchqErrors.Wrap(err, "encoding comment")
	}
	return append([]byte(xml.Header), out...), nil
}

// record is one child element of a listing document. Only the fields the
// listings read are decoded; everything else is ignored.
type record struct {
	XMLName     xml.Name
	ID          string `xml:"id"`
	Title       string `xml:"title"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Content     string `xml:"content"`
	DueAt       string `xml:"due-at"`
}

type collection struct {
	Records []record `xml:",any"`
}

// idDocument matches responses such as <upload><id>..</id></upload>.
type idDocument struct {
	ID string `xml:"id"`
}

// decodeRecords parses a flat listing document. When element is set only
// children with that name are kept.
func decodeRecords(route string, body []byte, element string) ([]record, error) {
	var doc collection
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, gitbchqErrors.Errorf("%w: %s: %w", gitbchqErrors.ErrMalformedResponse, route, err)
	}

	records := make([]record, 0, len(doc.Records))
	for _, r := range doc.Records {
		if element != "" && r.XMLName.Local != element {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func parseID(route, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 0 {
		return 0, gitbchqErrors.Wrapf(gitbchqErrors.ErrMalformedResponse, "%s: invalid id %q", route, raw)
	}
	return id, nil
}

// parseDue reads a due-at value. Empty means no due date.
func parseDue(route, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, gitbchqErrors.Wrapf(gitbchqErrors.ErrMalformedResponse, "%s: invalid due-at %q", route, raw)
}

// decodeID reads the <id> element of a create response.
func decodeID(route string, body []byte) (string, error) {
	var doc idDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", gitbchqErrors.Errorf("%w: %s: %w", gitbchqErrors.ErrMalformedResponse, route, err)
	}
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return "", gitbchqErrors.Wrapf(gitbchqErrors.ErrMalformedResponse, "%s: response has no id", route)
	}
	return id, nil
}
