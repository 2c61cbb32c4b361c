// Package chooser lets a user pick one of the sub-volumes embedded in a
// volume, for flows that need a single concrete volume to work on.
package chooser

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mrhapile/disktree/pkg/types"
)

// ErrTooFewSubVolumes is returned when Choose is called on a volume with
// fewer than two sub-volumes. There is nothing to choose; callers should
// check before asking.
var ErrTooFewSubVolumes = errors.New("chooser: volume has fewer than two sub-volumes")

// EventKind is something the user did in the list.
type EventKind int

const (
	// EventSelect moves the highlight to Index.
	EventSelect EventKind = iota
	// EventActivate is a double-click on Index: select and confirm.
	EventActivate
	// EventConfirm accepts the highlighted entry.
	EventConfirm
	// EventCancel closes the list without a choice.
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventSelect:
		return "select"
	case EventActivate:
		return "activate"
	case EventConfirm:
		return "confirm"
	case EventCancel:
		return "cancel"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one user action. Index is only meaningful for select and activate.
type Event struct {
	Kind  EventKind
	Index int
}

// Picker presents a list of labels and reports user actions on it.
type Picker interface {
	Show(labels []string) error
	NextEvent(ctx context.Context) (Event, error)
}

// Chooser runs the sub-volume selection protocol against a Picker.
type Chooser struct {
	Picker Picker
}

// New returns a Chooser that asks p.
func New(p Picker) *Chooser {
	return &Chooser{Picker: p}
}

// Choose shows the sub-volume ids of vol and returns the index the user
// confirmed. ok is false when the user cancelled. Nothing is returned
// without an explicit confirmation.
func (c *Chooser) Choose(ctx context.Context, vol types.Volume) (index int, ok bool, err error) {
	subs := vol.SubVolumes()
	if len(subs) < 2 {
		return 0, false, fmt.Errorf("%w: %q has %d", ErrTooFewSubVolumes, vol.VolumeID(), len(subs))
	}

	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.VolumeID()
	}
	if err := c.Picker.Show(ids); err != nil {
		return 0, false, fmt.Errorf("showing sub-volumes of %q: %w", vol.VolumeID(), err)
	}

	l := log.Ctx(ctx).With().Str("volume", vol.VolumeID()).Logger()
	current := -1
	for {
		ev, err := c.Picker.NextEvent(ctx)
		if err != nil {
			return 0, false, err
		}

		switch ev.Kind {
		case EventSelect, EventActivate:
			if ev.Index < 0 || ev.Index >= len(ids) {
				l.Warn().Int("index", ev.Index).Int("count", len(ids)).Msg("ignoring out of range selection")
				continue
			}
			current = ev.Index
			if ev.Kind == EventActivate {
				l.Debug().Int("index", current).Msg("sub-volume activated")
				return current, true, nil
			}
		case EventConfirm:
			if current < 0 {
				l.Debug().Msg("confirm with nothing selected")
				continue
			}
			l.Debug().Int("index", current).Msg("sub-volume confirmed")
			return current, true, nil
		case EventCancel:
			l.Debug().Msg("sub-volume choice cancelled")
			return 0, false, nil
		default:
			l.Warn().Stringer("event", ev.Kind).Msg("ignoring unknown event")
		}
	}
}

// ChooseVolume is Choose returning the sub-volume itself.
func (c *Chooser) ChooseVolume(ctx context.Context, vol types.Volume) (types.Volume, bool, error) {
	i, ok, err := c.Choose(ctx, vol)
	if err != nil || !ok {
		return nil, false, err
	}
	return vol.SubVolumes()[i], true, nil
}

// Resolve picks the volume an open or extract should work on: vol itself
// when it has no sub-volumes, the only sub-volume when there is one, and
// whatever the user chooses otherwise.
func (c *Chooser) Resolve(ctx context.Context, vol types.Volume) (types.Volume, bool, error) {
	switch subs := vol.SubVolumes(); len(subs) {
	case 0:
		return vol, true, nil
	case 1:
		return subs[0], true, nil
	default:
		return c.ChooseVolume(ctx, vol)
	}
}
