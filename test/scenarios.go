package test

import (
	"fmt"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/ability"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/rules"
	"github.com/MRamiBalles/tickmud/server/internal/engine"
	"github.com/MRamiBalles/tickmud/server/internal/platform/config"
	"github.com/MRamiBalles/tickmud/server/internal/world"
)

// TestResult captures the outcome of each scenario.
type TestResult struct {
	ScenarioName string
	Passed       bool
	Reason       string
	Ticks        int64
}

// Scenario is one scripted situation.
type Scenario struct {
	Name string
	Run  func() TestResult
}

var (
	rat    = world.Spawn{ID: "npc:rat", Name: "rat", Level: 1, Health: 30, RoomID: "limbo:training"}
	goblin = world.Spawn{ID: "npc:goblin", Name: "goblin", Level: 3, Health: 120, RoomID: "limbo:arena"}
)

// Scenarios returns every scripted scenario in run order.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "Duel with a rat", Run: duel},
		{Name: "Party shares the deathblow", Run: partyDeathblow},
		{Name: "Player death and respawn", Run: playerDeath},
		{Name: "Idle reaper", Run: idleReaper},
	}
}

// RunAll runs every scenario.
func RunAll() []TestResult {
	var out []TestResult
	for _, s := range Scenarios() {
		r := s.Run()
		r.ScenarioName = s.Name
		out = append(out, r)
	}
	return out
}

func fail(h *Harness, format string, args ...interface{}) TestResult {
	return TestResult{Reason: fmt.Sprintf(format, args...), Ticks: h.Engine.TickNumber()}
}

func pass(h *Harness, reason string) TestResult {
	return TestResult{Passed: true, Reason: reason, Ticks: h.Engine.TickNumber()}
}

func duel() TestResult {
	cfg := config.Default()
	h := NewHarness(cfg, FlatStriker{Amount: 10})
	hero := h.Player("p1", "Ayla", ability.ClassWarrior, "limbo:training")
	mob := h.NPC(rat)

	h.Engine.Combat().Engage(hero, mob)
	if !h.StepUntil(20, cfg.RoundInterval, func() bool { return !h.Online(mob) }) {
		return fail(h, "rat still alive after 20 rounds")
	}
	if !h.Heard(hero, "You killed rat!") {
		return fail(h, "no deathblow line")
	}
	if hero.Experience != rules.MobExp(1) {
		return fail(h, "expected %d experience, got %d", rules.MobExp(1), hero.Experience)
	}
	if got := hero.Currencies[engine.BountyCurrency]; got != rules.MobBounty(1) {
		return fail(h, "expected %d gold, got %d", rules.MobBounty(1), got)
	}
	if hero.IsInCombat() {
		return fail(h, "hero still engaged after the kill")
	}
	return pass(h, "rat died in three rounds; experience and bounty credited")
}

func partyDeathblow() TestResult {
	cfg := config.Default()
	h := NewHarness(cfg, FlatStriker{Amount: 50})
	leader := h.Player("p1", "Ayla", ability.ClassWarrior, "limbo:training")
	healer := h.Player("p2", "Bram", ability.ClassMage, "limbo:training")
	away := h.Player("p3", "Cato", ability.ClassWarrior, "limbo:start")
	mob := h.NPC(rat)

	w := h.Engine.World()
	w.CreateParty("party1", leader)
	_ = w.JoinParty("party1", healer)
	_ = w.JoinParty("party1", away)

	h.Engine.Combat().Engage(leader, mob)
	if !h.StepUntil(5, cfg.RoundInterval, func() bool { return !h.Online(mob) }) {
		return fail(h, "rat survived")
	}
	if leader.Experience != rules.MobExp(1) || healer.Experience != rules.MobExp(1) {
		return fail(h, "expected both present members credited, got %d and %d", leader.Experience, healer.Experience)
	}
	if away.Experience != 0 {
		return fail(h, "member in another room was credited %d", away.Experience)
	}
	return pass(h, "credit proxied to the two present members only")
}

func playerDeath() TestResult {
	cfg := config.Default()
	h := NewHarness(cfg, FlatStriker{Amount: 10})
	hero := h.Player("p1", "Ayla", ability.ClassWarrior, "limbo:arena")
	hero.Pool.Define(attribute.Health, 15)
	hero.Experience = 500
	mob := h.NPC(goblin)

	h.Engine.Combat().Engage(hero, mob)
	if !h.StepUntil(10, cfg.RoundInterval, func() bool { return h.Heard(hero, "Whoops, that sucked!") }) {
		return fail(h, "hero never died")
	}
	if hero.RoomID != cfg.StartingRoom {
		return fail(h, "expected respawn in %s, got %s", cfg.StartingRoom, hero.RoomID)
	}
	if hp := hero.Pool.Current(attribute.Health); hp != 15 {
		return fail(h, "expected full health after respawn, got %d", hp)
	}
	if hero.Experience != 400 {
		return fail(h, "expected 400 experience after the penalty, got %d", hero.Experience)
	}
	if mob.IsInCombat() {
		return fail(h, "goblin still engaged with the dead hero")
	}
	return pass(h, "respawned at the start with full health and 20% experience lost")
}

func idleReaper() TestResult {
	cfg := config.Default()
	cfg.MaxIdleMinutes = 1
	h := NewHarness(cfg, FlatStriker{Amount: 10})
	hero := h.Player("p1", "Ayla", ability.ClassWarrior, "limbo:start")
	hero.LastCommandAt = h.Clock.Now()

	h.Step(1, 30*time.Second)
	if !h.Online(hero) {
		return fail(h, "evicted before the idle threshold")
	}
	h.Step(3, time.Minute)
	if h.Online(hero) {
		return fail(h, "still online after two idle minutes")
	}
	if !h.Heard(hero, "You were kicked for being idle for more than 1 minutes!") {
		return fail(h, "no eviction notice")
	}
	if h.Metrics.IdleEvictions != 1 {
		return fail(h, "expected 1 eviction recorded, got %d", h.Metrics.IdleEvictions)
	}
	return pass(h, "idle player saved and removed after the threshold")
}
