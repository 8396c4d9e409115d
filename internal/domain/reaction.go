package domain

import (
	"errors"

	"github.com/google/uuid"
)

type ReactionKind string

const (
	ReactionNone    ReactionKind = ""
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

var ErrUnknownReaction = errors.New("unknown reaction kind")

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// ReactorSet is a set of user ids.
type ReactorSet map[uuid.UUID]struct{}

func (s ReactorSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Reactions holds the like and dislike sets of one post. A user id is never in both.
type Reactions struct {
	Likes    ReactorSet
	Dislikes ReactorSet
}

type ReactionCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

func NewReactions() *Reactions {
	return &Reactions{
		Likes:    make(ReactorSet),
		Dislikes: make(ReactorSet),
	}
}

// Toggle applies kind for userID. If the user already holds that reaction it is
// removed; otherwise it is added and the opposite reaction is dropped. The returned
// bool reports whether the user holds kind afterwards.
func (r *Reactions) Toggle(userID uuid.UUID, kind ReactionKind) (bool, error) {
	target, opposite, err := r.sets(kind)
	if err != nil {
		return false, err
	}

	if target.Has(userID) {
		delete(target, userID)
		return false, nil
	}

	target[userID] = struct{}{}
	delete(opposite, userID)
	return true, nil
}

// KindOf returns the reaction userID currently holds, or ReactionNone.
func (r *Reactions) KindOf(userID uuid.UUID) ReactionKind {
	switch {
	case r.Likes.Has(userID):
		return ReactionLike
	case r.Dislikes.Has(userID):
		return ReactionDislike
	default:
		return ReactionNone
	}
}

// Set forces userID's reaction to kind; ReactionNone clears it.
func (r *Reactions) Set(userID uuid.UUID, kind ReactionKind) {
	delete(r.Likes, userID)
	delete(r.Dislikes, userID)
	switch kind {
	case ReactionLike:
		r.Likes[userID] = struct{}{}
	case ReactionDislike:
		r.Dislikes[userID] = struct{}{}
	}
}

func (r *Reactions) Counts() ReactionCounts {
	return ReactionCounts{Likes: len(r.Likes), Dislikes: len(r.Dislikes)}
}

func (r *Reactions) Clone() *Reactions {
	c := NewReactions()
	for id := range r.Likes {
		c.Likes[id] = struct{}{}
	}
	for id := range r.Dislikes {
		c.Dislikes[id] = struct{}{}
	}
	return c
}

// Diff lists every user whose reaction differs between r and other, mapped to the
// reaction they hold in other.
func (r *Reactions) Diff(other *Reactions) map[uuid.UUID]ReactionKind {
	changed := make(map[uuid.UUID]ReactionKind)
	check := func(id uuid.UUID) {
		if after := other.KindOf(id); r.KindOf(id) != after {
			changed[id] = after
		}
	}
	for _, set := range []ReactorSet{r.Likes, r.Dislikes, other.Likes, other.Dislikes} {
		for id := range set {
			check(id)
		}
	}
	return changed
}

func (r *Reactions) sets(kind ReactionKind) (target, opposite ReactorSet, err error) {
	switch kind {
	case ReactionLike:
		return r.Likes, r.Dislikes, nil
	case ReactionDislike:
		return r.Dislikes, r.Likes, nil
	default:
		return nil, nil, ErrUnknownReaction
	}
}
