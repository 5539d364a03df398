// Package scheduler runs the periodic event checks: a minute-resolution fire
// check, an hourly auto-delete sweep, and the daily tip broadcast.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/clock"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// fireWindow is the half-width of the match window around an event's target
// instant. It must not exceed the one-minute poll period or a single event
// could match on two consecutive ticks.
const fireWindow = 60 * time.Second

// Notifier delivers announcements. The bot implements it; tests use a mock.
type Notifier interface {
	AnnounceEvent(channelID, name, info string) error
	SendTip(channelID, tip string) error
}

// Upcoming pairs an event with its next fire instant in virtual time.
type Upcoming struct {
	Event models.Event
	At    time.Time
}

// Engine polls the event store once per minute and fires due events. A single
// engine runs per process.
type Engine struct {
	store    *store.EventStore
	settings *store.Settings
	tips     *store.TipStore
	notifier Notifier
	clock    func() time.Time
	cron     *cron.Cron
	wg       sync.WaitGroup

	// fired maps event ID to the last minute it fired, guarding against a
	// double fire if the poll period and match window ever drift apart.
	mu    sync.Mutex
	fired map[uuid.UUID]time.Time
}

func New(events *store.EventStore, settings *store.Settings, tips *store.TipStore, notifier Notifier) *Engine {
	return &Engine{
		store:    events,
		settings: settings,
		tips:     tips,
		notifier: notifier,
		clock:    time.Now,
		fired:    make(map[uuid.UUID]time.Time),
	}
}

// Start registers the periodic jobs and starts the timer loop. The timers run
// for the process lifetime; nothing here is ever torn down by a tick error.
func (e *Engine) Start() error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", e.CheckEvents); err != nil {
		return fmt.Errorf("error scheduling fire check: %w", err)
	}
	if _, err := c.AddFunc("@hourly", e.CleanupExpired); err != nil {
		return fmt.Errorf("error scheduling cleanup sweep: %w", err)
	}
	if _, err := c.AddFunc("@daily", e.SendDailyTips); err != nil {
		return fmt.Errorf("error scheduling daily tip: %w", err)
	}
	c.Start()
	e.cron = c

	log.Println("Scheduler started (fire check every minute, cleanup hourly)")
	return nil
}

// Stop halts the timers and waits for in-flight announcements.
func (e *Engine) Stop() {
	if e.cron != nil {
		<-e.cron.Stop().Done()
		e.cron = nil
	}
	e.wg.Wait()
	log.Println("Scheduler stopped")
}

// VirtualNow returns the guild's current virtual time.
func (e *Engine) VirtualNow(guildID string) time.Time {
	offset, _ := e.settings.Offset(guildID)
	return clock.ToVirtual(e.clock().UTC(), offset)
}

// CheckEvents evaluates every event of every guild against its virtual clock
// and fires the ones inside the match window. A failure on one event never
// stops evaluation of the rest.
func (e *Engine) CheckEvents() {
	nowReal := e.clock().UTC()

	for _, gid := range e.store.GuildIDs() {
		offset, _ := e.settings.Offset(gid)
		virtualNow := clock.ToVirtual(nowReal, offset)
		channelID, hasChannel := e.settings.Channel(gid)

		for _, ev := range e.store.Events(gid) {
			due, at, err := eventDue(ev, virtualNow)
			if err != nil {
				log.Printf("Error checking event %q for guild %s: %v", ev.Name, gid, err)
				continue
			}
			if !due {
				continue
			}

			minute := at.Truncate(time.Minute)
			if !e.claimFire(ev.ID, minute) {
				continue
			}
			if !hasChannel {
				// No destination: nothing is sent and MarkFired is not set.
				// The fire is lost once the window passes.
				log.Printf("No announcement channel for guild %s, skipping %q", gid, ev.Name)
				continue
			}

			e.wg.Add(1)
			go func(gid, channelID string, ev models.Event) {
				defer e.wg.Done()
				if err := e.notifier.AnnounceEvent(channelID, ev.Name, ev.Info); err != nil {
					log.Printf("Error announcing event %q for guild %s: %v", ev.Name, gid, err)
					return
				}
				log.Printf("[%s FIRED] %s for guild %s", ev.Kind, ev.Name, gid)
				e.store.MarkFired(gid, ev.ID, nowReal)
			}(gid, channelID, ev)
		}
	}
}

// claimFire records the fire minute for an event, reporting false if that
// minute was already claimed.
func (e *Engine) claimFire(id uuid.UUID, minute time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if last, ok := e.fired[id]; ok && last.Equal(minute) {
		return false
	}
	e.fired[id] = minute
	return true
}

// eventDue reports whether the event's target instant is within the match
// window of virtualNow, and what that instant is.
func eventDue(ev models.Event, virtualNow time.Time) (bool, time.Time, error) {
	switch ev.Kind {
	case models.EventWeekly:
		if virtualNow.Weekday() != ev.Day {
			return false, time.Time{}, nil
		}
		candidate := time.Date(virtualNow.Year(), virtualNow.Month(), virtualNow.Day(),
			ev.Time.Hour, ev.Time.Minute, 0, 0, virtualNow.Location())
		return withinWindow(virtualNow, candidate), candidate, nil
	case models.EventCountdown:
		if ev.FireAt == nil {
			return false, time.Time{}, fmt.Errorf("countdown %q has no fire time", ev.Name)
		}
		return withinWindow(virtualNow, *ev.FireAt), *ev.FireAt, nil
	default:
		return false, time.Time{}, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

func withinWindow(now, target time.Time) bool {
	diff := now.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	return diff < fireWindow
}

// CleanupExpired removes fired auto-delete events older than 24 hours and
// prunes stale fire-guard entries.
func (e *Engine) CleanupExpired() {
	nowReal := e.clock().UTC()

	if removed := e.store.PurgeExpiredAutoDeletes(nowReal); removed > 0 {
		log.Printf("Cleanup sweep removed %d expired event(s)", removed)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for id, minute := range e.fired {
		if nowReal.Sub(minute) > time.Hour {
			delete(e.fired, id)
		}
	}
}

// SendDailyTips posts one random tip to every guild with a channel and tips.
func (e *Engine) SendDailyTips() {
	for gid, channelID := range e.settings.Channels() {
		tip, ok := e.tips.Random(gid)
		if !ok {
			continue
		}
		e.wg.Add(1)
		go func(gid, channelID, tip string) {
			defer e.wg.Done()
			if err := e.notifier.SendTip(channelID, tip); err != nil {
				log.Printf("Error sending daily tip for guild %s: %v", gid, err)
			}
		}(gid, channelID, tip)
	}
}

// NextEvent returns the soonest strictly-future event for a guild. Ties are
// broken by list order. Countdowns whose instant has elapsed are not upcoming.
func (e *Engine) NextEvent(guildID string) (Upcoming, bool) {
	virtualNow := e.VirtualNow(guildID)

	var best Upcoming
	found := false
	for _, ev := range e.store.Events(guildID) {
		at, ok := nextOccurrence(ev, virtualNow)
		if !ok || !at.After(virtualNow) {
			continue
		}
		if !found || at.Before(best.At) {
			best = Upcoming{Event: ev, At: at}
			found = true
		}
	}
	return best, found
}

// TodaysEvents lists the events falling on the guild's current virtual day:
// weekly events on today's weekday and countdowns with today's date.
func (e *Engine) TodaysEvents(guildID string) []Upcoming {
	virtualNow := e.VirtualNow(guildID)

	var out []Upcoming
	for _, ev := range e.store.Events(guildID) {
		switch ev.Kind {
		case models.EventWeekly:
			if ev.Day != virtualNow.Weekday() {
				continue
			}
			at := time.Date(virtualNow.Year(), virtualNow.Month(), virtualNow.Day(),
				ev.Time.Hour, ev.Time.Minute, 0, 0, virtualNow.Location())
			out = append(out, Upcoming{Event: ev, At: at})
		case models.EventCountdown:
			if ev.FireAt == nil {
				continue
			}
			y1, m1, d1 := ev.FireAt.Date()
			y2, m2, d2 := virtualNow.Date()
			if y1 == y2 && m1 == m2 && d1 == d2 {
				out = append(out, Upcoming{Event: ev, At: *ev.FireAt})
			}
		}
	}
	return out
}

func nextOccurrence(ev models.Event, virtualNow time.Time) (time.Time, bool) {
	switch ev.Kind {
	case models.EventWeekly:
		return clock.NextWeeklyOccurrence(ev.Day, ev.Time.Hour, ev.Time.Minute, virtualNow), true
	case models.EventCountdown:
		if ev.FireAt == nil {
			return time.Time{}, false
		}
		return *ev.FireAt, true
	default:
		return time.Time{}, false
	}
}
