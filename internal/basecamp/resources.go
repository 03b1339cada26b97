package basecamp

import (
	"context"
	"net/http"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
	"github.com/gitbchq/gitbchq/internal/logger"
)

// Element names kept from the todo listings.
const (
	todoListElement = "todo-list"
	todoItemElement = "todo-item"
)

// API exposes the typed Basecamp operations on top of a Client.
type API struct {
	client *Client
	logger logger.Logger
}

// NewAPI creates an API that sends every request through client.
func NewAPI(client *Client, logger logger.Logger) *API {
	return &API{client: client, logger: logger}
}

// Client returns the underlying HTTP client.
func (a *API) Client() *Client {
	return a.client
}

// MessagesRoute is projects/{projectID}/posts.
func MessagesRoute(projectID int) string {
	return Route(Seg("projects", projectID), Seg("posts", ""))
}

// TodoListsRoute is projects/{projectID}/todo_lists.xml.
func TodoListsRoute(projectID int) string {
	return Route(Seg("projects", projectID), Seg("todo_lists.xml", ""))
}

// TodoItemsRoute is todo_lists/{todoListID}/todo_items.xml.
func TodoItemsRoute(todoListID int) string {
	return Route(Seg("todo_lists", todoListID), Seg("todo_items.xml", ""))
}

// UploadRoute is the file upload endpoint.
func UploadRoute() string {
	return Route(Seg("upload", ""))
}

// CommentsRoute is {posts|todo_items}/{id}/comments.xml.
func CommentsRoute(ref ResourceRef) string {
	return Route(Seg(ref.Type.RouteKey(), ref.ID), Seg("comments.xml", ""))
}

// CompleteRoute is todo_items/{itemID}/complete.xml.
func CompleteRoute(itemID int) string {
	return Route(Seg("todo_items", itemID), Seg("complete.xml", ""))
}

// ListMessages returns the project's messages in server order.
func (a *API) ListMessages(ctx context.Context, projectID int) (*Listing[Message], error) {
	route := MessagesRoute(projectID)
	records, err := a.list(ctx, route, "")
	if err != nil {
		return nil, err
	}

	messages := NewListing[Message]()
	for _, r := range records {
		id, err := parseID(route, r.ID)
		if err != nil {
			return nil, err
		}
		messages.Add(id, Message{ID: id, Title: r.Title})
	}
	a.log("listed %d messages for project %d", messages.Len(), projectID)
	return messages, nil
}

// ListTodoLists returns the project's todo lists in server order.
func (a *API) ListTodoLists(ctx context.Context, projectID int) (*Listing[TodoList], error) {
	route := TodoListsRoute(projectID)
	records, err := a.list(ctx, route, todoListElement)
	if err != nil {
		return nil, err
	}

	lists := NewListing[TodoList]()
	for _, r := range records {
		id, err := parseID(route, r.ID)
		if err != nil {
			return nil, err
		}
		lists.Add(id, TodoList{ID: id, Name: r.Name, Description: r.Description})
	}
	a.log("listed %d todo lists for project %d", lists.Len(), projectID)
	return lists, nil
}

// ListTodoItems returns the items of one todo list in server order.
func (a *API) ListTodoItems(ctx context.Context, todoListID int) (*Listing[TodoItem], error) {
	route := TodoItemsRoute(todoListID)
	records, err := a.list(ctx, route, todoItemElement)
	if err != nil {
		return nil, err
	}

	items := NewListing[TodoItem]()
	for _, r := range records {
		id, err := parseID(route, r.ID)
		if err != nil {
			return nil, err
		}
		due, err := parseDue(route, r.DueAt)
		if err != nil {
			return nil, err
		}
		items.Add(id, TodoItem{ID: id, Content: r.Content, Due: due})
	}
	a.log("listed %d todo items for list %d", items.Len(), todoListID)
	return items, nil
}

// UploadPatch uploads patch as a raw file and returns its id.
// The connection is released when the upload ends, whatever the outcome.
func (a *API) UploadPatch(ctx context.Context, patch string) (FileID, error) {
	defer a.client.Close()

	route := UploadRoute()
	resp, err := a.client.Post(ctx, route, ContentTypeOctet, []byte(patch))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", gitbchqErrors.NewStatusError(http.MethodPost, route, resp.StatusCode, string(resp.Body))
	}

	id, err := decodeID(route, resp.Body)
	if err != nil {
		return "", err
	}
	a.log("uploaded patch (%d bytes) as file %s", len(patch), id)
	return FileID(id), nil
}

// PostComment posts comment to its resource and returns the new comment id.
// The connection is released when the post ends, whatever the outcome.
func (a *API) PostComment(ctx context.Context, comment Comment) (string, error) {
	defer a.client.Close()

	if comment.Resource.Type.RouteKey() == "" {
		return "", gitbchqErrors.Wrapf(gitbchqErrors.ErrInvalidInput, "unknown resource type %q", comment.Resource.Type)
	}

	body, err := BuildCommentXML(comment.Body, comment.Attachment)
	if err != nil {
		return "", err
	}

	route := CommentsRoute(comment.Resource)
	resp, err := a.client.Post(ctx, route, ContentTypeXML, body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", gitbchqErrors.NewStatusError(http.MethodPost, route, resp.StatusCode, string(resp.Body))
	}

	id, err := decodeID(route, resp.Body)
	if err != nil {
		return "", err
	}
	a.log("posted comment %s on %s #%d", id, comment.Resource.Type, comment.Resource.ID)
	return id, nil
}

// CompleteTodoItem marks an item complete and returns the response status.
// The status is not interpreted here.
func (a *API) CompleteTodoItem(ctx context.Context, itemID int) (int, error) {
	route := CompleteRoute(itemID)
	resp, err := a.client.Put(ctx, route, nil)
	if err != nil {
		return 0, err
	}
	a.log("completed todo item %d: status %d", itemID, resp.StatusCode)
	return resp.StatusCode, nil
}

// list GETs a listing document and returns its records.
func (a *API) list(ctx context.Context, route, element string) ([]record, error) {
	resp, err := a.client.Get(ctx, route)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, gitbchqErrors.NewStatusError(http.MethodGet, route, resp.StatusCode, string(resp.Body))
	}
	return decodeRecords(route, resp.Body, element)
}

func (a *API) log(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Info(format, args...)
	}
}
