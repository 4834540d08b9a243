package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	repository "github.com/okian/robopath/internal/adapters/repository"
	service "github.com/okian/robopath/internal/app"
	"github.com/okian/robopath/internal/domain/events"
	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const autoList = `[
	{"name": "init", "npos": {"x": 0.1, "y": 0.5}, "time": 0},
	{"name": "move", "npos": {"x": 0.2, "y": 0.5}, "time": 1},
	{"name": "pickup", "npos": {"x": 0.3, "y": 0.5}, "time": 2},
	{"name": "scoreSpeaker", "npos": {"x": 0.05, "y": 0.5}, "time": 4}
]`

// memStore is an in-memory repository.Store that counts event list reads.
type memStore struct {
	mu     sync.Mutex
	rows   map[model.EventListKey][]byte
	reads  map[model.EventListKey]int
	err    error
	closed bool
}

func newMemStore() *memStore {
	return &memStore{
		rows: map[model.EventListKey][]byte{
			{Team: 254, Match: 1, Stage: model.StageAuto}:   []byte(autoList),
			{Team: 254, Match: 1, Stage: model.StageTeleop}: nil,
			{Team: 254, Match: 2, Stage: model.StageAuto}:   []byte(`[{"name":`),
			{Team: 254, Match: 2, Stage: model.StageTeleop}: []byte(`[]`),
			{Team: 118, Match: 5, Stage: model.StageAuto}:   []byte(`[]`),
			{Team: 118, Match: 5, Stage: model.StageTeleop}: []byte(`[]`),
		},
		reads: map[model.EventListKey]int{},
	}
}

func (m *memStore) Teams(context.Context) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []int{118, 254}, nil
}

func (m *memStore) Matches(_ context.Context, team int) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[int]bool{}
	var out []int
	for k := range m.rows {
		if k.Team == team && !seen[k.Match] {
			seen[k.Match] = true
			out = append(out, k.Match)
		}
	}
	return out, nil
}

func (m *memStore) EventList(_ context.Context, team, match int, stage model.Stage) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := model.EventListKey{Team: team, Match: match, Stage: stage}
	m.reads[k]++
	raw, ok := m.rows[k]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return raw, nil
}

func (m *memStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memStore) readCount(k model.EventListKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[k]
}

func intp(v int) *int { return &v }

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports defaults and is not started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["cacheTTLms"], ShouldEqual, int64(60000))
		})

		Convey("Then starting without a store fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoStore), ShouldBeTrue)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithStore(newMemStore()),
			service.WithWorkerCount(4),
			service.WithQueueSize(16),
			service.WithDedupeSize(32),
			service.WithCacheTTL(time.Second),
			service.WithFieldSize(1200, 600),
			service.WithHeatmapGrid(4, 2),
			service.WithLogger(logger.Get()),
		)
		stats := svc.GetStats()
		So(stats["workerCount"], ShouldEqual, 4)
		So(stats["queueSize"], ShouldEqual, 16)
		So(stats["dedupeSize"], ShouldEqual, 32)
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service over a store", t, func() {
		store := newMemStore()
		svc := service.New(service.WithStore(store))

		Convey("When started twice and stopped twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.GetStats()["queueLength"], ShouldNotBeNil)

			svc.Stop()
			svc.Stop()

			Convey("Then the store is closed", func() {
				So(store.closed, ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When stopped without being started", func() {
			svc.Stop()

			Convey("Then the store is still closed", func() {
				So(store.closed, ShouldBeTrue)
			})
		})
	})

	Convey("Given a service restarted after a stop", t, func() {
		now := time.Unix(1700000000, 0)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		svc := service.New(
			service.WithStore(newMemStore()),
			service.WithCacheTTL(20*time.Millisecond),
			service.WithClock(clock),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		_, err := svc.Events(ctx, service.Query{Team: 254, Match: intp(1)})
		So(err, ShouldBeNil)
		So(svc.GetStats()["cacheSize"], ShouldEqual, 1)

		mu.Lock()
		now = now.Add(time.Minute)
		mu.Unlock()

		Convey("Then the sweeper runs again and drops expired lists", func() {
			deadline := time.Now().Add(2 * time.Second)
			for svc.GetStats()["cacheSize"] != 0 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			So(svc.GetStats()["cacheSize"], ShouldEqual, 0)
		})
	})
}

func TestService_Selectors(t *testing.T) {
	Convey("Given a service over a store", t, func() {
		store := newMemStore()
		svc := service.New(service.WithStore(store), service.WithDefaultTeam(254))
		ctx := context.Background()

		Convey("When listing teams", func() {
			teams, err := svc.Teams(ctx)
			So(err, ShouldBeNil)
			So(len(teams), ShouldEqual, 2)
			So(teams[0].Value, ShouldEqual, 118)
			So(teams[0].Label, ShouldEqual, "118")

			Convey("Then the configured default team is preselected", func() {
				So(*svc.DefaultTeam(teams), ShouldEqual, 254)
			})
		})

		Convey("When listing matches", func() {
			choice, err := svc.Matches(ctx, 254)
			So(err, ShouldBeNil)
			So(len(choice.Options), ShouldEqual, 2)
			So(*choice.Value, ShouldEqual, 1)

			none, err := svc.Matches(ctx, 9)
			So(err, ShouldBeNil)
			So(none.Value, ShouldBeNil)
		})

		Convey("When the store fails", func() {
			store.err = errors.New("db down")
			_, err := svc.Teams(ctx)
			So(err, ShouldNotBeNil)
			_, err = svc.Matches(ctx, 254)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given no configured default team", t, func() {
		svc := service.New(service.WithStore(newMemStore()))
		teams, _ := svc.Teams(context.Background())
		So(*svc.DefaultTeam(teams), ShouldEqual, 118)
		So(svc.DefaultTeam(nil), ShouldBeNil)
	})
}

func TestService_Events(t *testing.T) {
	Convey("Given a service over a store", t, func() {
		store := newMemStore()
		svc := service.New(service.WithStore(store))
		ctx := context.Background()

		Convey("When no match is selected", func() {
			evs, err := svc.Events(ctx, service.Query{Team: 254})
			So(err, ShouldBeNil)
			So(evs, ShouldNotBeNil)
			So(len(evs), ShouldEqual, 0)
		})

		Convey("When all types are selected", func() {
			evs, err := svc.Events(ctx, service.Query{Team: 254, Match: intp(1), Stage: model.StageAuto})
			So(err, ShouldBeNil)
			So(len(evs), ShouldEqual, 4)
			So(evs[3].ID, ShouldEqual, 3)
		})

		Convey("When filtering and sorting", func() {
			evs, err := svc.Events(ctx, service.Query{
				Team: 254, Match: intp(1),
				Types: events.NewTypeSet("init", "scoreSpeaker"),
				Sort:  events.SortX,
			})
			So(err, ShouldBeNil)
			So(len(evs), ShouldEqual, 2)
			So(evs[0].Name, ShouldEqual, model.EventScoreSpeaker)
		})

		Convey("When the checklist is empty", func() {
			evs, err := svc.Events(ctx, service.Query{Team: 254, Match: intp(1), Types: events.NewTypeSet()})
			So(err, ShouldBeNil)
			So(len(evs), ShouldEqual, 0)
		})

		Convey("When the column is NULL, the row is absent or the JSON is malformed", func() {
			for _, q := range []service.Query{
				{Team: 254, Match: intp(1), Stage: model.StageTeleop},
				{Team: 254, Match: intp(99)},
				{Team: 254, Match: intp(2)},
			} {
				evs, err := svc.Events(ctx, q)
				So(err, ShouldBeNil)
				So(len(evs), ShouldEqual, 0)
			}
		})

		Convey("When the same list is read twice", func() {
			q := service.Query{Team: 254, Match: intp(1)}
			_, _ = svc.Events(ctx, q)
			_, _ = svc.Events(ctx, q)

			Convey("Then the store is read once", func() {
				So(store.readCount(model.EventListKey{Team: 254, Match: 1, Stage: model.StageAuto}), ShouldEqual, 1)
			})
		})

		Convey("When the store fails", func() {
			store.err = errors.New("db down")
			_, err := svc.Events(ctx, service.Query{Team: 254, Match: intp(1)})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_CacheExpiry(t *testing.T) {
	Convey("Given a service with a controllable clock", t, func() {
		store := newMemStore()
		now := time.Unix(1700000000, 0)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		svc := service.New(service.WithStore(store), service.WithCacheTTL(time.Minute), service.WithClock(clock))
		ctx := context.Background()
		q := service.Query{Team: 254, Match: intp(1)}
		key := model.EventListKey{Team: 254, Match: 1, Stage: model.StageAuto}

		_, _ = svc.Events(ctx, q)
		mu.Lock()
		now = now.Add(2 * time.Minute)
		mu.Unlock()
		_, _ = svc.Events(ctx, q)

		So(store.readCount(key), ShouldEqual, 2)
	})

	Convey("Given a service with caching disabled", t, func() {
		store := newMemStore()
		svc := service.New(service.WithStore(store), service.WithCacheTTL(0))
		ctx := context.Background()
		q := service.Query{Team: 254, Match: intp(1)}

		_, _ = svc.Events(ctx, q)
		_, _ = svc.Events(ctx, q)

		So(store.readCount(model.EventListKey{Team: 254, Match: 1, Stage: model.StageAuto}), ShouldEqual, 2)
		So(svc.GetStats()["cacheSize"], ShouldEqual, 0)
	})
}

func TestService_Views(t *testing.T) {
	Convey("Given a service over a store", t, func() {
		svc := service.New(service.WithStore(newMemStore()), service.WithHeatmapGrid(2, 2))
		ctx := context.Background()
		q := service.Query{Team: 254, Match: intp(1)}

		Convey("When drawing the field", func() {
			fv, err := svc.Field(ctx, q, true)
			So(err, ShouldBeNil)
			So(len(fv.Overlay.Arrows), ShouldEqual, 3)
			So(len(fv.Overlay.Markers), ShouldEqual, 3)
			So(fv.Heatmap, ShouldNotBeNil)
			So(fv.Heatmap.Max, ShouldEqual, 4)

			plain, err := svc.Field(ctx, q, false)
			So(err, ShouldBeNil)
			So(plain.Heatmap, ShouldBeNil)
		})

		Convey("When summarizing", func() {
			s, err := svc.Summary(ctx, q)
			So(err, ShouldBeNil)
			So(s.Count, ShouldEqual, 4)
			So(s.Scored, ShouldEqual, 1)
			So(s.Duration, ShouldEqual, 4.0)
		})

		Convey("When building the timeline", func() {
			times, dists, err := svc.Timeline(ctx, q)
			So(err, ShouldBeNil)
			So(times, ShouldResemble, []float64{0, 1, 2, 4})
			So(dists[0], ShouldEqual, 0.0)
			So(dists[3], ShouldBeGreaterThan, dists[2])
		})

		Convey("When the table is sorted by x", func() {
			sorted := q
			sorted.Sort = events.SortX
			sorted.Desc = true

			byID, err := svc.Summary(ctx, q)
			So(err, ShouldBeNil)
			byX, err := svc.Summary(ctx, sorted)
			So(err, ShouldBeNil)
			times, _, err := svc.Timeline(ctx, sorted)
			So(err, ShouldBeNil)
			viewed, err := svc.Events(ctx, sorted)
			So(err, ShouldBeNil)

			Convey("Then statistics keep temporal order", func() {
				So(byX.PathLength, ShouldEqual, byID.PathLength)
				So(byX.AvgSpeed, ShouldEqual, byID.AvgSpeed)
				So(times, ShouldResemble, []float64{0, 1, 2, 4})
			})

			Convey("Then the table rows follow the sort", func() {
				So(viewed[0].Name, ShouldEqual, model.EventPickup)
			})
		})

		Convey("When taking a snapshot", func() {
			snap, err := svc.Snapshot(ctx, service.Query{Team: 254, Match: intp(1), Sort: events.SortTime, Desc: true}, true)
			So(err, ShouldBeNil)
			So(len(snap.Events), ShouldEqual, 4)
			So(snap.Events[0].Time, ShouldEqual, 4.0)
			So(len(snap.Field.Overlay.Arrows), ShouldEqual, 3)
			So(snap.Field.Heatmap, ShouldNotBeNil)
			So(snap.Summary.Count, ShouldEqual, 4)
			So(snap.Summary.Duration, ShouldEqual, 4.0)
		})
	})

	Convey("Given a snapshot with caching disabled", t, func() {
		store := newMemStore()
		svc := service.New(service.WithStore(store), service.WithCacheTTL(0))

		_, err := svc.Snapshot(context.Background(), service.Query{Team: 254, Match: intp(1)}, false)
		So(err, ShouldBeNil)

		Convey("Then the list is read once", func() {
			So(store.readCount(model.EventListKey{Team: 254, Match: 1, Stage: model.StageAuto}), ShouldEqual, 1)
		})
	})

	Convey("Given a snapshot without a match", t, func() {
		svc := service.New(service.WithStore(newMemStore()))
		snap, err := svc.Snapshot(context.Background(), service.Query{Team: 254}, false)
		So(err, ShouldBeNil)
		So(snap.Events, ShouldBeEmpty)
		So(snap.Summary.Count, ShouldEqual, 0)
	})
}
