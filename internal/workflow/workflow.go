package workflow

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gitbchq/gitbchq/internal/basecamp"
	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
	"github.com/gitbchq/gitbchq/internal/logger"
	"github.com/gitbchq/gitbchq/internal/prompt"
)

// State is one step of the workflow. States only ever move forward.
type State int

// Workflow states in the order they are visited.
const (
	StateSelectResourceType State = iota
	StateSelectResourceInstance
	StateSelectSubInstance
	StateUploadPatchDecision
	StateComposeComment
	StatePostComment
	StateCompleteDecision
	StateDone
)

var stateNames = map[State]string{
	StateSelectResourceType:     "SELECT_RESOURCE_TYPE",
	StateSelectResourceInstance: "SELECT_RESOURCE_INSTANCE",
	StateSelectSubInstance:      "SELECT_SUB_INSTANCE",
	StateUploadPatchDecision:    "UPLOAD_PATCH_DECISION",
	StateComposeComment:         "COMPOSE_COMMENT",
	StatePostComment:            "POST_COMMENT",
	StateCompleteDecision:       "COMPLETE_DECISION",
	StateDone:                   "DONE",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN(" + strconv.Itoa(int(s)) + ")"
}

// ResourceAPI is the part of the Basecamp API the workflow drives.
type ResourceAPI interface {
	ListMessages(ctx context.Context, projectID int) (*basecamp.Listing[basecamp.Message], error)
	ListTodoLists(ctx context.Context, projectID int) (*basecamp.Listing[basecamp.TodoList], error)
	ListTodoItems(ctx context.Context, todoListID int) (*basecamp.Listing[basecamp.TodoItem], error)
	UploadPatch(ctx context.Context, patch string) (basecamp.FileID, error)
	PostComment(ctx context.Context, comment basecamp.Comment) (string, error)
	CompleteTodoItem(ctx context.Context, itemID int) (int, error)
}

// CommitSource provides the last commit. *git.Repository implements it.
type CommitSource interface {
	LastCommitLogFormatted(ctx context.Context, color bool) (string, error)
	DiffAgainstParent(ctx context.Context) (string, error)
	PatchFileName(ctx context.Context) (string, error)
}

// Options configures a Workflow.
type Options struct {
	// ProjectID scopes the message and todo list listings.
	ProjectID int

	// NoteTerminator ends the free-text note. Defaults to prompt.DefaultTerminator.
	NoteTerminator string
}

// Result describes what a run did.
type Result struct {
	// States lists every state entered, in order.
	States []State

	// Skipped is set when the user chose to update nothing.
	Skipped bool

	// Resource is the resource the comment was meant for.
	Resource *basecamp.ResourceRef

	// FileID is set when a patch was uploaded.
	FileID basecamp.FileID

	// CommentID is set once the comment is posted.
	CommentID string

	// Completed is set when a todo item was marked complete.
	Completed bool
}

// Workflow walks the user from picking a resource to posting a comment on it.
type Workflow struct {
	api        ResourceAPI
	commits    CommitSource
	interactor prompt.Interactor
	logger     logger.Logger
	opts       Options
}

// session holds what one run has decided so far.
type session struct {
	choice     ResourceChoice
	todoListID int
	resource   basecamp.ResourceRef
	attachment *basecamp.Attachment
	body       string
	result     *Result
}

// New creates a Workflow.
func New(api ResourceAPI, commits CommitSource, interactor prompt.Interactor, logger logger.Logger, opts Options) *Workflow {
	if opts.NoteTerminator == "" {
		opts.NoteTerminator = prompt.DefaultTerminator
	}
	return &Workflow{
		api:        api,
		commits:    commits,
		interactor: interactor,
		logger:     logger,
		opts:       opts,
	}
}

// Run executes the workflow once. The returned Result is never nil and
// reflects the progress made even when an error is returned.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	s := &session{result: &Result{}}
	state := StateSelectResourceType

	for {
		s.result.States = append(s.result.States, state)
		if state == StateDone {
			return s.result, nil
		}
		if err := ctx.Err(); err != nil {
			return s.result, err
		}

		w.logger.Info("entering %s", state)
		next, err := w.step(ctx, state, s)
		if err != nil {
			w.logger.Info("%s failed: %v", state, err)
			return s.result, err
		}
		state = next
	}
}

func (w *Workflow) step(ctx context.Context, state State, s *session) (State, error) {
	switch state {
	case StateSelectResourceType:
		return w.selectResourceType(ctx, s)
	case StateSelectResourceInstance:
		return w.selectResourceInstance(ctx, s)
	case StateSelectSubInstance:
		return w.selectSubInstance(ctx, s)
	case StateUploadPatchDecision:
		return w.uploadPatchDecision(ctx, s)
	case StateComposeComment:
		return w.composeComment(ctx, s)
	case StatePostComment:
		return w.postComment(ctx, s)
	case StateCompleteDecision:
		return w.completeDecision(ctx, s)
	}
	return StateDone, gitbchqErrors.Errorf("unknown workflow state %s", state)
}

func (w *Workflow) selectResourceType(ctx context.Context, s *session) (State, error) {
	w.logger.StatusMessage("What do you want to update?")
	w.logger.StatusMessage("* 1. A message")
	w.logger.StatusMessage("* 2. A todo item")
	w.logger.StatusMessage("* 0. Nothing")

	for {
		answer, err := w.interactor.PromptLine(ctx, "Choice [0-2]: ")
		if err != nil {
			return StateDone, err
		}
		choice, err := ParseResourceType(answer)
		if err == nil {
			s.choice = choice
			break
		}
		if err := ctx.Err(); err != nil {
			return StateDone, err
		}
		w.logger.StatusMessage("Please answer 1, 2 or 0.")
	}

	if s.choice == ChoiceSkip {
		s.result.Skipped = true
		w.logger.InfoToUser("Nothing to update")
		return StateDone, nil
	}
	return StateSelectResourceInstance, nil
}

func (w *Workflow) selectResourceInstance(ctx context.Context, s *session) (State, error) {
	if s.choice == ChoiceMessage {
		messages, err := w.api.ListMessages(ctx, w.opts.ProjectID)
		if err != nil {
			return StateDone, gitbchqErrors.Wrap(err, "listing messages")
		}
		if messages.Len() == 0 {
			return StateDone, gitbchqErrors.Wrapf(gitbchqErrors.ErrEmptyResourceList, "no messages in project %d", w.opts.ProjectID)
		}

		id, err := pick(ctx, w, "Select a message to update", messages, func(m basecamp.Message) string { return m.Title })
		if err != nil {
			return StateDone, err
		}
		w.setResource(s, basecamp.ResourceRef{Type: basecamp.ResourceMessage, ID: id})
		return StateUploadPatchDecision, nil
	}

	lists, err := w.api.ListTodoLists(ctx, w.opts.ProjectID)
	if err != nil {
		return StateDone, gitbchqErrors.Wrap(err, "listing todo lists")
	}
	if lists.Len() == 0 {
		return StateDone, gitbchqErrors.Wrapf(gitbchqErrors.ErrEmptyResourceList, "no todo lists in project %d", w.opts.ProjectID)
	}

	id, err := pick(ctx, w, "Select a todo list", lists, todoListLabel)
	if err != nil {
		return StateDone, err
	}
	s.todoListID = id
	return StateSelectSubInstance, nil
}

func (w *Workflow) selectSubInstance(ctx context.Context, s *session) (State, error) {
	items, err := w.api.ListTodoItems(ctx, s.todoListID)
	if err != nil {
		return StateDone, gitbchqErrors.Wrap(err, "listing todo items")
	}
	if items.Len() == 0 {
		return StateDone, gitbchqErrors.Wrapf(gitbchqErrors.ErrEmptyResourceList, "no todo items in list %d", s.todoListID)
	}

	id, err := pick(ctx, w, "Select a todo item to update", items, todoItemLabel)
	if err != nil {
		return StateDone, err
	}
	w.setResource(s, basecamp.ResourceRef{Type: basecamp.ResourceTodoItem, ID: id})
	return StateUploadPatchDecision, nil
}

func (w *Workflow) setResource(s *session, ref basecamp.ResourceRef) {
	s.resource = ref
	s.result.Resource = &ref
	w.logger.Info("selected %s #%d", ref.Type, ref.ID)
}

func (w *Workflow) uploadPatchDecision(ctx context.Context, s *session) (State, error) {
	upload, err := w.interactor.PromptYesNo(ctx, "Upload a patch?", false)
	if err != nil {
		return StateDone, err
	}
	if !upload {
		return StateComposeComment, nil
	}

	patch, err := w.commits.DiffAgainstParent(ctx)
	if err != nil {
		return StateDone, gitbchqErrors.Wrap(err, "building patch")
	}
	if strings.TrimSpace(patch) == "" {
		w.logger.WarningToUser("The last commit has no changes, not uploading a patch")
		return StateComposeComment, nil
	}
	name, err := w.commits.PatchFileName(ctx)
	if err != nil {
		return StateDone, gitbchqErrors.Wrap(err, "naming patch")
	}

	w.logger.StatusMessage("* Uploading %s...", name)
	fileID, err := w.api.UploadPatch(ctx, patch)
	if err != nil {
		w.logger.WarningToUser("Patch upload failed: %v", err)
		proceed, promptErr := w.interactor.PromptYesNo(ctx, "Post the comment without the patch?", false)
		if promptErr != nil {
			return StateDone, promptErr
		}
		if !proceed {
			return StateDone, gitbchqErrors.Wrap(err, "uploading patch")
		}
		return StateComposeComment, nil
	}

	s.attachment = &basecamp.Attachment{FileID: fileID, FileName: name}
	s.result.FileID = fileID
	w.logger.Success("Uploaded %s", name)
	return StateComposeComment, nil
}

func (w *Workflow) composeComment(ctx context.Context, s *session) (State, error) {
	note, err := w.interactor.PromptMultiline(ctx,
		fmt.Sprintf("Add a note (finish with a line containing only %q, leave empty for none):", w.opts.NoteTerminator),
		w.opts.NoteTerminator)
	if err != nil {
		return StateDone, err
	}

	commitLog, err := w.commits.LastCommitLogFormatted(ctx, true)
	if err != nil {
		return StateDone, gitbchqErrors.Wrap(err, "reading last commit")
	}

	s.body = ComposeBody(note, commitLog)
	return StatePostComment, nil
}

func (w *Workflow) postComment(ctx context.Context, s *session) (State, error) {
	w.logger.StatusMessage("")
	w.logger.StatusMessage("----- comment preview -----")
	w.logger.StatusMessage("%s", s.body)
	if s.attachment != nil {
		w.logger.StatusMessage("[attached: %s]", s.attachment.FileName)
	}
	w.logger.StatusMessage("---------------------------")

	post, err := w.interactor.PromptYesNo(ctx, fmt.Sprintf("Post this comment to %s #%d?", displayType(s.resource.Type), s.resource.ID), true)
	if err != nil {
		return StateDone, err
	}
	if !post {
		if s.attachment != nil {
			w.logger.Warning("uploaded file %s is left unattached", s.attachment.FileID)
		}
		w.logger.InfoToUser("Nothing posted")
		return StateDone, nil
	}

	id, err := w.api.PostComment(ctx, basecamp.Comment{
		Resource:   s.resource,
		Body:       s.body,
		Attachment: s.attachment,
	})
	if err != nil {
		return StateDone, gitbchqErrors.Wrap(err, "posting comment")
	}

	s.result.CommentID = id
	w.logger.Success("Posted comment #%s to %s #%d", id, displayType(s.resource.Type), s.resource.ID)

	if s.resource.Type == basecamp.ResourceTodoItem {
		return StateCompleteDecision, nil
	}
	return StateDone, nil
}

func (w *Workflow) completeDecision(ctx context.Context, s *session) (State, error) {
	complete, err := w.interactor.PromptYesNo(ctx, fmt.Sprintf("Mark todo item #%d as complete?", s.resource.ID), false)
	if err != nil {
		return StateDone, err
	}
	if !complete {
		return StateDone, nil
	}

	status, err := w.api.CompleteTodoItem(ctx, s.resource.ID)
	if err != nil {
		return StateDone, gitbchqErrors.Wrap(err, "completing todo item")
	}
	if status != http.StatusOK {
		w.logger.WarningToUser("Completing todo item #%d returned status %d", s.resource.ID, status)
		return StateDone, nil
	}

	s.result.Completed = true
	w.logger.Success("Marked todo item #%d as complete", s.resource.ID)
	return StateDone, nil
}

// pick prints a numbered listing and asks until the answer is a valid pick.
// It returns the id of the chosen entry.
func pick[T any](ctx context.Context, w *Workflow, header string, listing *basecamp.Listing[T], label func(T) string) (int, error) {
	n := listing.Len()
	w.logger.StatusMessage("%s [1-%d]:", header, n)
	for i := 0; i < n; i++ {
		id, v := listing.At(i)
		w.logger.StatusMessage("* %d. [#%d] %s", i+1, id, label(v))
	}

	for {
		answer, err := w.interactor.PromptLine(ctx, "> ")
		if err != nil {
			return 0, err
		}
		index, err := ParsePick(answer, n)
		if err == nil {
			id, _ := listing.At(index)
			return id, nil
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		w.logger.StatusMessage("Please enter a number between 1 and %d.", n)
	}
}

func todoListLabel(l basecamp.TodoList) string {
	if l.Description == "" {
		return l.Name
	}
	return l.Name + " (" + l.Description + ")"
}

func todoItemLabel(item basecamp.TodoItem) string {
	if item.Due == nil {
		return item.Content
	}
	return item.Content + " (due " + item.Due.Format("2006-01-02") + ")"
}

func displayType(t basecamp.ResourceType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}
