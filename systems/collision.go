package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meltdown/components"
)

// PlayerCollisionMap is the set of entities currently touching the player.
type PlayerCollisionMap map[ecs.Entity]struct{}

// EnemyCollisionMap maps each enemy to the damaging colliders currently touching it.
type EnemyCollisionMap map[ecs.Entity]map[ecs.Entity]struct{}

// CollisionSystem detects new contacts and turns them into events.
// A contact produces one event when it starts and nothing while it persists.
type CollisionSystem struct {
	hash  *SpatialHash
	trace bool

	players   ecs.Filter3[components.Transform, components.Collider, components.Player]
	hitPlayer ecs.Filter2[components.Transform, components.Collider]
	hitEnemy  ecs.Filter2[components.Transform, components.Collider]
	enemies   ecs.Filter2[components.Transform, components.Collider]
	dashMap   *ecs.Map[components.Dash]

	touching map[ecs.Entity]struct{}
	seen     map[ecs.Entity]struct{}
}

// NewCollisionSystem creates a collision system with the given hash cell size.
func NewCollisionSystem(w *ecs.World, cellSize float64, trace bool) *CollisionSystem {
	return &CollisionSystem{
		hash:      NewSpatialHash(cellSize),
		trace:     trace,
		players:   *ecs.NewFilter3[components.Transform, components.Collider, components.Player](w),
		hitPlayer: *ecs.NewFilter2[components.Transform, components.Collider](w).With(ecs.C[components.CollideWithPlayer]()),
		hitEnemy:  *ecs.NewFilter2[components.Transform, components.Collider](w).With(ecs.C[components.CollideWithEnemy]()),
		enemies:   *ecs.NewFilter2[components.Transform, components.Collider](w).With(ecs.C[components.Enemy]()),
		dashMap:   ecs.NewMap[components.Dash](w),
		touching:  make(map[ecs.Entity]struct{}),
		seen:      make(map[ecs.Entity]struct{}),
	}
}

// Hash exposes the broad phase built by the last UpdateEnemies.
func (s *CollisionSystem) Hash() *SpatialHash { return s.hash }

// player returns the first player's resolved collider.
// ok is false when there is no player or the player is dashing.
func (s *CollisionSystem) player() (ecs.Entity, AbsoluteCollider, bool) {
	query := s.players.Query()
	for query.Next() {
		e := query.Entity()
		t, c, _ := query.Get()
		abs := s.resolve(e, *c, *t)
		query.Close()
		if s.dashMap.Has(e) && s.dashMap.Get(e).Active() {
			return e, AbsoluteCollider{}, false
		}
		return e, abs, true
	}
	return ecs.Entity{}, AbsoluteCollider{}, false
}

// UpdatePlayer tests every player-damaging collider against the player.
// Colliders are few, so no broad phase is used.
func (s *CollisionSystem) UpdatePlayer(sess *Session) {
	player, pc, ok := s.player()
	if !ok {
		return
	}

	clear(s.touching)
	query := s.hitPlayer.Query()
	for query.Next() {
		e := query.Entity()
		if e == player {
			continue
		}
		t, c := query.Get()
		if !Collides(pc, s.resolve(e, *c, *t)) {
			continue
		}
		s.touching[e] = struct{}{}
		if _, ok := sess.PlayerContacts[e]; ok {
			continue
		}
		sess.PlayerContacts[e] = struct{}{}
		sess.PlayerEvents.Push(PlayerCollideEvent{With: e})
		sess.Counters.PlayerContacts++
	}

	for e := range sess.PlayerContacts {
		if _, ok := s.touching[e]; !ok {
			delete(sess.PlayerContacts, e)
		}
	}
}

// UpdateEnemies rebuilds the spatial hash from enemy-damaging colliders and
// tests every enemy against its neighbourhood.
func (s *CollisionSystem) UpdateEnemies(sess *Session) {
	s.hash.Clear()
	hq := s.hitEnemy.Query()
	for hq.Next() {
		e := hq.Entity()
		t, c := hq.Get()
		abs := s.resolve(e, *c, *t)
		s.hash.Insert(SpatialEntry{Entity: e, Position: abs.Center(), Collider: abs})
	}

	clear(s.seen)
	query := s.enemies.Query()
	for query.Next() {
		enemy := query.Entity()
		t, c := query.Get()
		abs := s.resolve(enemy, *c, *t)
		s.seen[enemy] = struct{}{}

		contacts := sess.EnemyContacts[enemy]
		clear(s.touching)
		for entry := range s.hash.Nearby(abs.Center()) {
			if entry.Entity == enemy || !Collides(abs, entry.Collider) {
				continue
			}
			s.touching[entry.Entity] = struct{}{}
			if contacts == nil {
				contacts = make(map[ecs.Entity]struct{})
				sess.EnemyContacts[enemy] = contacts
			}
			if _, ok := contacts[entry.Entity]; ok {
				continue
			}
			contacts[entry.Entity] = struct{}{}
			sess.EnemyEvents.Push(EnemyCollideEvent{Enemy: enemy, With: entry.Entity})
			sess.Counters.EnemyContacts++
		}

		// Contacts that separated, left the neighbourhood or no longer exist
		for e := range contacts {
			if _, ok := s.touching[e]; !ok {
				delete(contacts, e)
			}
		}
	}

	for enemy := range sess.EnemyContacts {
		if _, ok := s.seen[enemy]; !ok {
			delete(sess.EnemyContacts, enemy)
		}
	}
}

func (s *CollisionSystem) resolve(e ecs.Entity, c components.Collider, t components.Transform) AbsoluteCollider {
	abs := Absolute(c, t)
	if s.trace {
		slog.Debug("collider resolved",
			"entity", e.ID(),
			"kind", abs.Kind.String(),
			"x", abs.Center().X,
			"y", abs.Center().Y,
		)
	}
	return abs
}
