// Package session keeps the editor's working sets: each Session owns the
// images loaded into it and a queue of transformations that are applied only
// when the session is saved.
//
// A Manager holds every open session and tracks which one is active. It is
// not safe for concurrent use; callers serialize requests.
package session

import (
	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
	"github.com/ironsheep/netpbm-tools-mcp/internal/transform"
)

// Session is an ordered set of images plus their pending transformations.
type Session struct {
	id     int
	images []*netpbm.Image
	queue  []transform.Kind
}

func newSession(id int, images []*netpbm.Image) *Session {
	return &Session{id: id, images: images}
}

// ID returns the session id.
func (s *Session) ID() int { return s.id }

// Images returns the session's images in load order. The images themselves
// belong to the session and must not be modified.
func (s *Session) Images() []*netpbm.Image {
	return append([]*netpbm.Image(nil), s.images...)
}

// Image returns the image called name, or nil.
func (s *Session) Image(name string) *netpbm.Image {
	for _, img := range s.images {
		if img.Name == name {
			return img
		}
	}
	return nil
}

// Enqueue appends kind to the pending queue.
func (s *Session) Enqueue(kind transform.Kind) error {
	if !kind.Valid() {
		return apperrors.New(apperrors.UnknownTransformation, "unknown transformation %s", kind)
	}
	s.queue = append(s.queue, kind)
	return nil
}

// Undo removes and returns the most recently queued transformation.
func (s *Session) Undo() (transform.Kind, error) {
	if len(s.queue) == 0 {
		return 0, apperrors.ErrNothingToUndo
	}
	last := s.queue[len(s.queue)-1]
	s.queue = s.queue[:len(s.queue)-1]
	return last, nil
}

// Pending returns a copy of the queue in append order.
func (s *Session) Pending() []transform.Kind {
	return append([]transform.Kind(nil), s.queue...)
}

// HasPending reports whether any transformation is queued.
func (s *Session) HasPending() bool {
	return len(s.queue) > 0
}

func (s *Session) add(img *netpbm.Image) error {
	if s.Image(img.Name) != nil {
		return apperrors.New(apperrors.IncompatibleImages, "image %q already exists in session %d", img.Name, s.id)
	}
	s.images = append(s.images, img)
	return nil
}

func (s *Session) clearQueue() {
	s.queue = nil
}
