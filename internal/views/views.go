// Package views renders the task list and theme pages as server-side HTML.
//
// Every view is built with the store it reads from; nothing is looked up
// ambiently. Views only read state. Mutations travel back to the stores
// through the form actions and websocket commands they emit.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/ent0n29/taskboard/internal/tasks"
	"github.com/ent0n29/taskboard/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("views").ParseFS(templateFS, "templates/*.html"))

// SessionBasePath is the URL prefix of the pages and form actions of a session.
func SessionBasePath(sessionID string) string {
	return "/ui/s/" + sessionID
}

type itemData struct {
	ID        int64
	Text      string
	Completed bool
	BasePath  string
}

type listData struct {
	Items []itemData
}

type inputData struct {
	BasePath string
}

type taskPageData struct {
	SessionID string
	Theme     theme.Theme
	Input     template.HTML
	Header    template.HTML
	List      template.HTML
}

type themePageData struct {
	SessionID string
	Theme     theme.Theme
	BasePath  string
}

// Header shows how many tasks exist and how many are completed.
type Header struct {
	Store *tasks.Store
}

func (h Header) Render(w io.Writer) error {
	return h.RenderSnapshot(w, h.Store.Snapshot())
}

// RenderSnapshot renders the counts carried by snap instead of reading the
// store again.
func (h Header) RenderSnapshot(w io.Writer, snap tasks.Snapshot) error {
	return templates.ExecuteTemplate(w, "task_header", snap.Counts)
}

// List shows every task in insertion order with toggle and delete controls.
type List struct {
	Store    *tasks.Store
	BasePath string
}

func (l List) Render(w io.Writer) error {
	return l.RenderSnapshot(w, l.Store.Snapshot())
}

func (l List) RenderSnapshot(w io.Writer, snap tasks.Snapshot) error {
	return templates.ExecuteTemplate(w, "task_list", newListData(l.BasePath, snap.Tasks))
}

// Input is the new-task form. It reads no state.
type Input struct {
	BasePath string
}

func (in Input) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "task_input", inputData{BasePath: in.BasePath})
}

// TaskPage composes Input, Header and List. Header and List are rendered
// from a single snapshot so the counts always match the items shown.
type TaskPage struct {
	Input     Input
	Header    Header
	List      List
	Tasks     *tasks.Store
	Theme     *theme.Store
	SessionID string
}

// NewTaskPage wires the three task views to the session's task store.
func NewTaskPage(taskStore *tasks.Store, themeStore *theme.Store, sessionID string) TaskPage {
	base := SessionBasePath(sessionID)
	return TaskPage{
		Input:     Input{BasePath: base},
		Header:    Header{Store: taskStore},
		List:      List{Store: taskStore, BasePath: base},
		Tasks:     taskStore,
		Theme:     themeStore,
		SessionID: sessionID,
	}
}

func (p TaskPage) Render(w io.Writer) error {
	var input bytes.Buffer
	if err := p.Input.Render(&input); err != nil {
		return err
	}
	header, list, err := p.RenderFragments(p.Tasks.Snapshot())
	if err != nil {
		return err
	}
	current := theme.Light
	if p.Theme != nil {
		current = p.Theme.Current()
	}
	// Fragments come out of html/template and are already escaped.
	return templates.ExecuteTemplate(w, "task_page", taskPageData{
		SessionID: p.SessionID,
		Theme:     current,
		Input:     template.HTML(input.String()),
		Header:    template.HTML(header),
		List:      template.HTML(list),
	})
}

// RenderFragments renders the page's Header and List for snap. The
// websocket push uses it to replace both regions after a store change.
func (p TaskPage) RenderFragments(snap tasks.Snapshot) (string, string, error) {
	var header, list bytes.Buffer
	if err := p.Header.RenderSnapshot(&header, snap); err != nil {
		return "", "", err
	}
	if err := p.List.RenderSnapshot(&list, snap); err != nil {
		return "", "", err
	}
	return header.String(), list.String(), nil
}

type ThemePage struct {
	Store     *theme.Store
	SessionID string
}

func (p ThemePage) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "theme_page", themePageData{
		SessionID: p.SessionID,
		Theme:     p.Store.Current(),
		BasePath:  SessionBasePath(p.SessionID),
	})
}

func newListData(basePath string, list []tasks.Task) listData {
	items := make([]itemData, 0, len(list))
	for _, t := range list {
		items = append(items, itemData{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			BasePath:  basePath,
		})
	}
	return listData{Items: items}
}
