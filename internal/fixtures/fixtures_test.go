package fixtures

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	repository "github.com/okian/robopath/internal/adapters/repository"
	"github.com/okian/robopath/internal/domain/events"
	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		cfg := Config{Teams: 3, Matches: 4, AutoEvents: 6, TeleEvents: 20, Seed: 42}
		gen, err := NewGenerator(cfg)
		So(err, ShouldBeNil)
		rows, err := gen.Rows()
		So(err, ShouldBeNil)

		Convey("Then it produces teams x matches rows with distinct keys", func() {
			So(len(rows), ShouldEqual, 12)
			keys := map[model.MatchKey]bool{}
			for _, r := range rows {
				So(keys[r.Key()], ShouldBeFalse)
				keys[r.Key()] = true
				So(r.Team, ShouldBeBetweenOrEqual, 1, maxTeam)
			}
		})

		Convey("Then the same seed reproduces the table", func() {
			again, _ := NewGenerator(cfg)
			rows2, err := again.Rows()
			So(err, ShouldBeNil)
			So(rows2, ShouldResemble, rows)
		})

		Convey("Then event lists decode into valid walks", func() {
			auto, err := events.Decode(rows[0].AutoEvents)
			So(err, ShouldBeNil)
			So(len(auto), ShouldEqual, 6)
			So(auto[0].Name, ShouldEqual, model.EventInit)
			So(auto[0].Time, ShouldEqual, 0.0)

			tele, err := events.Decode(rows[0].TeleEvents)
			So(err, ShouldBeNil)
			So(len(tele), ShouldEqual, 20)
			for _, list := range [][]model.MatchEvent{auto, tele} {
				for i, e := range list {
					So(e.ID, ShouldEqual, i)
					So(e.Name.IsKnown(), ShouldBeTrue)
					So(e.Pos.X, ShouldBeBetweenOrEqual, 0.0, 1.0)
					So(e.Pos.Y, ShouldBeBetweenOrEqual, 0.0, 1.0)
					if i > 0 {
						So(e.Time, ShouldBeGreaterThanOrEqualTo, list[i-1].Time)
					}
				}
			}
			So(auto[len(auto)-1].Time, ShouldBeLessThanOrEqualTo, autoLength)
			So(tele[len(tele)-1].Time, ShouldBeLessThanOrEqualTo, teleLength)
		})
	})

	Convey("Given a different seed", t, func() {
		a, _ := NewGenerator(Config{Teams: 2, Matches: 2, AutoEvents: 5, TeleEvents: 5, Seed: 1})
		b, _ := NewGenerator(Config{Teams: 2, Matches: 2, AutoEvents: 5, TeleEvents: 5, Seed: 2})
		ra, _ := a.Rows()
		rb, _ := b.Rows()
		So(ra, ShouldNotResemble, rb)
	})

	Convey("Given empty event counts", t, func() {
		gen, _ := NewGenerator(Config{Teams: 1, Matches: 1, Seed: 7})
		rows, err := gen.Rows()
		So(err, ShouldBeNil)
		So(string(rows[0].AutoEvents), ShouldEqual, "[]")
	})

	Convey("Given invalid sizes", t, func() {
		for _, cfg := range []Config{
			{Teams: 0, Matches: 1},
			{Teams: 1, Matches: 0},
			{Teams: maxTeam + 1, Matches: 1},
			{Teams: 1, Matches: 1, AutoEvents: -1},
		} {
			_, err := NewGenerator(cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		}
	})
}

func TestSeed(t *testing.T) {
	Convey("Given an empty sqlite database", t, func() {
		ctx := context.Background()
		store, err := repository.Open(ctx, repository.DriverSQLite, filepath.Join(t.TempDir(), "seed.db"))
		So(err, ShouldBeNil)
		defer store.Close()

		cfg := Config{Teams: 2, Matches: 3, AutoEvents: 4, TeleEvents: 10, Seed: 9}
		stats, err := Seed(ctx, store, cfg)

		Convey("Then every row is stored and readable", func() {
			So(err, ShouldBeNil)
			So(stats.RunID, ShouldNotBeEmpty)
			So(stats.Rows, ShouldEqual, 6)
			So(stats.Events, ShouldEqual, 84)

			teams, err := store.Teams(ctx)
			So(err, ShouldBeNil)
			So(len(teams), ShouldEqual, 2)
			matches, err := store.Matches(ctx, teams[0])
			So(err, ShouldBeNil)
			So(len(matches), ShouldEqual, 3)

			raw, err := store.EventList(ctx, teams[0], matches[0], model.StageTeleop)
			So(err, ShouldBeNil)
			evs, err := events.Decode(raw)
			So(err, ShouldBeNil)
			So(len(evs), ShouldEqual, 10)
		})

		Convey("Then seeding again replaces rather than duplicates", func() {
			_, err := Seed(ctx, store, cfg)
			So(err, ShouldBeNil)
			teams, _ := store.Teams(ctx)
			matches, _ := store.Matches(ctx, teams[0])
			So(len(matches), ShouldEqual, 3)
		})
	})
}
