package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ironsheep/netpbm-tools-mcp/internal/collage"
	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
	"github.com/ironsheep/netpbm-tools-mcp/internal/transform"
)

// Loader decodes the image a user refers to by name.
type Loader interface {
	Load(name string) (*netpbm.Image, error)
}

// Writer persists an image under its name and returns where it went.
type Writer interface {
	Save(img *netpbm.Image) (string, error)
}

// Diagnostic records why one file of a multi-file load failed.
type Diagnostic struct {
	Name string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (%v)", d.Name, d.Err)
}

// LoadResult reports a successful load.
type LoadResult struct {
	SessionID int
	Loaded    []string
	Failed    []Diagnostic
}

// SaveResult reports a successful save.
type SaveResult struct {
	Paths   []string
	Applied []string
	Notices []string
}

// Manager owns all open sessions and the active-session pointer.
type Manager struct {
	loader   Loader
	writer   Writer
	log      *slog.Logger
	sessions map[int]*Session
	nextID   int
	active   *Session
}

// NewManager creates an empty manager. A nil logger uses slog.Default().
func NewManager(loader Loader, writer Writer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		loader:   loader,
		writer:   writer,
		log:      logger,
		sessions: make(map[int]*Session),
		nextID:   1,
	}
}

// Active returns the active session.
func (m *Manager) Active() (*Session, error) {
	if m.active == nil {
		return nil, apperrors.ErrNoActiveSession
	}
	return m.active, nil
}

// ActiveID returns the active session's id, or 0 when there is none.
func (m *Manager) ActiveID() int {
	if m.active == nil {
		return 0
	}
	return m.active.id
}

// Load decodes each named file independently and opens a new active session
// holding the ones that succeeded. Files that fail are reported in the
// result. If no file loads, no session is created and the error lists every
// failure.
func (m *Manager) Load(names ...string) (*LoadResult, error) {
	if len(names) == 0 {
		return nil, apperrors.New(apperrors.NotFound, "no files to load")
	}

	res := &LoadResult{}
	var images []*netpbm.Image
	seen := make(map[string]bool)

	for _, name := range names {
		img, err := m.loader.Load(name)
		if err == nil && seen[img.Name] {
			err = apperrors.New(apperrors.IncompatibleImages, "image %q listed more than once", img.Name)
		}
		if err != nil {
			m.log.Warn("failed to load image", "name", name, "error", err)
			res.Failed = append(res.Failed, Diagnostic{Name: name, Err: err})
			continue
		}
		seen[img.Name] = true
		images = append(images, img)
		res.Loaded = append(res.Loaded, img.Name)
	}

	if len(images) == 0 {
		errs := make([]error, 0, len(res.Failed))
		for _, d := range res.Failed {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, d.Err))
		}
		return nil, apperrors.Wrap(apperrors.InvalidFormat, errors.Join(errs...), "failed to load any images")
	}

	s := newSession(m.nextID, images)
	m.sessions[s.id] = s
	m.nextID++
	m.active = s
	res.SessionID = s.id

	m.log.Info("session started", "session", s.id, "images", len(images), "failed", len(res.Failed))
	return res, nil
}

// Add loads one more image into the active session. An image whose name is
// already in the session is rejected.
func (m *Manager) Add(name string) (*netpbm.Image, error) {
	s, err := m.Active()
	if err != nil {
		return nil, err
	}
	if s.Image(name) != nil {
		return nil, apperrors.New(apperrors.IncompatibleImages, "image %q already exists in session %d", name, s.id)
	}

	img, err := m.loader.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to add image %q: %w", name, err)
	}
	if err := s.add(img); err != nil {
		return nil, err
	}

	m.log.Info("image added", "session", s.id, "image", img.Name)
	return img, nil
}

// Enqueue decodes token and appends it to the active session's queue.
func (m *Manager) Enqueue(token string) (transform.Kind, error) {
	s, err := m.Active()
	if err != nil {
		return 0, err
	}
	kind, err := transform.ParseKind(token)
	if err != nil {
		return 0, err
	}
	if err := s.Enqueue(kind); err != nil {
		return 0, err
	}
	m.log.Debug("transformation queued", "session", s.id, "kind", kind)
	return kind, nil
}

// Undo removes the most recently queued transformation of the active
// session.
func (m *Manager) Undo() (transform.Kind, error) {
	s, err := m.Active()
	if err != nil {
		return 0, err
	}
	return s.Undo()
}

// Switch makes session id active.
func (m *Manager) Switch(id int) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "session with ID %d does not exist", id)
	}
	m.active = s
	return s, nil
}

// Close removes the active session. The remaining session with the lowest
// id becomes active; next is 0 when no session remains.
func (m *Manager) Close() (closed, next int, err error) {
	s, err := m.Active()
	if err != nil {
		return 0, 0, err
	}

	delete(m.sessions, s.id)
	m.active = nil
	if ids := m.ids(); len(ids) > 0 {
		m.active = m.sessions[ids[0]]
		next = ids[0]
	}

	m.log.Info("session closed", "session", s.id, "active", next)
	return s.id, next, nil
}

// Save applies every queued transformation, in order, to every image of the
// active session, then writes each image under its name. The queue is
// cleared whether or not the save succeeds. When a write fails the error
// names the image; images written before it stay on disk and their paths
// are returned in the result along with the error.
func (m *Manager) Save() (*SaveResult, error) {
	s, err := m.Active()
	if err != nil {
		return nil, err
	}
	if len(s.images) == 0 {
		return nil, apperrors.New(apperrors.NotFound, "no images to save in session %d", s.id)
	}
	defer s.clearQueue()

	res := &SaveResult{}
	for _, k := range s.queue {
		res.Applied = append(res.Applied, k.String())
	}

	for i, img := range s.images {
		out, outcomes, err := transform.ApplyAll(img, s.queue)
		if err != nil {
			return nil, fmt.Errorf("failed to transform image %q: %w", img.Name, err)
		}
		s.images[i] = out
		res.Notices = append(res.Notices, notices(img.Name, outcomes)...)
	}

	for _, img := range s.images {
		path, err := m.writer.Save(img)
		if err != nil {
			m.log.Error("failed to save image", "session", s.id, "image", img.Name, "error", err)
			return res, apperrors.Wrap(apperrors.IO, err, "failed to save image %s", img.Name)
		}
		res.Paths = append(res.Paths, path)
	}

	m.log.Info("session saved", "session", s.id, "images", len(res.Paths), "applied", len(res.Applied))
	return res, nil
}

// SaveAs applies the queue to a copy of the active session's first image and
// writes it as name. The session's images and queue are left as they were.
func (m *Manager) SaveAs(name string) (string, error) {
	s, err := m.Active()
	if err != nil {
		return "", err
	}
	if len(s.images) == 0 {
		return "", apperrors.New(apperrors.NotFound, "no images to save in session %d", s.id)
	}

	first := s.images[0]
	if !strings.HasSuffix(strings.ToLower(name), first.Format.Extension()) {
		return "", apperrors.New(apperrors.IncompatibleImages,
			"output filename must end with %s to match image format", first.Format.Extension())
	}

	out, _, err := transform.ApplyAll(first.Clone(), s.queue)
	if err != nil {
		return "", fmt.Errorf("failed to transform image %q: %w", first.Name, err)
	}
	out.Name = name

	path, err := m.writer.Save(out)
	if err != nil {
		return "", apperrors.Wrap(apperrors.IO, err, "failed to save image to %s", name)
	}
	m.log.Info("session saved as", "session", s.id, "source", first.Name, "path", path)
	return path, nil
}

// Collage composes two images of the active session and appends the result
// to it under outputName.
func (m *Manager) Collage(direction, first, second, outputName string) (*netpbm.Image, error) {
	s, err := m.Active()
	if err != nil {
		return nil, err
	}
	dir, err := collage.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	a := s.Image(first)
	if a == nil {
		return nil, apperrors.New(apperrors.NotFound, "image not found in session: %s", first)
	}
	b := s.Image(second)
	if b == nil {
		return nil, apperrors.New(apperrors.NotFound, "image not found in session: %s", second)
	}

	out, err := collage.Compose(dir, a, b, outputName)
	if err != nil {
		return nil, err
	}
	if err := s.add(out); err != nil {
		return nil, err
	}

	m.log.Info("collage created", "session", s.id, "image", outputName, "direction", dir)
	return out, nil
}

// Info summarizes the active session.
func (m *Manager) Info() (*Summary, error) {
	s, err := m.Active()
	if err != nil {
		return nil, err
	}
	sum := summarize(s, true)
	return &sum, nil
}

// Sessions summarizes every open session in id order.
func (m *Manager) Sessions() []Summary {
	ids := m.ids()
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		s := m.sessions[id]
		out = append(out, summarize(s, s == m.active))
	}
	return out
}

func (m *Manager) ids() []int {
	ids := make([]int, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func notices(name string, outcomes []transform.Outcome) []string {
	var out []string
	for _, o := range outcomes {
		if !o.Applied && o.Notice != "" {
			out = append(out, name+": "+o.Notice)
		}
	}
	return out
}
