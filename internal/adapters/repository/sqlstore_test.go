package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/robopath/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func openTestStore(t *testing.T, opts ...Option) *SQLStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "match.db")
	s, err := Open(context.Background(), DriverSQLite, dsn, opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return s
}

func TestEventListQuery(t *testing.T) {
	Convey("Given an event list lookup", t, func() {
		Convey("When the stage is Auto", func() {
			query, args, err := EventListQuery("match", 254, 3, model.StageAuto)
			So(err, ShouldBeNil)
			So(query, ShouldEqual, "SELECT AutoEventList FROM match WHERE Team = ? AND Match = ?")
			So(args, ShouldResemble, []any{254, 3})
		})

		Convey("When the stage is Teleop", func() {
			query, _, err := EventListQuery("match", 254, 3, model.StageTeleop)
			So(err, ShouldBeNil)
			So(query, ShouldEqual, "SELECT TeleEventList FROM match WHERE Team = ? AND Match = ?")
		})

		Convey("When the stage is unknown", func() {
			_, _, err := EventListQuery("match", 254, 3, model.Stage("Endgame"))
			So(errors.Is(err, ErrInvalidStage), ShouldBeTrue)
		})

		Convey("When the table name is not an identifier", func() {
			_, _, err := EventListQuery("match; DROP TABLE match", 254, 3, model.StageAuto)
			So(errors.Is(err, ErrInvalidIdentifier), ShouldBeTrue)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given an unsupported driver", t, func() {
		_, err := Open(context.Background(), "mysql", "x")
		So(errors.Is(err, ErrUnsupportedDriver), ShouldBeTrue)
	})

	Convey("Given an unsafe table option", t, func() {
		db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "x.db"))
		So(err, ShouldBeNil)
		defer db.Close()

		_, err = New(db, DriverSQLite, WithTable("match--"))
		So(errors.Is(err, ErrInvalidIdentifier), ShouldBeTrue)
	})

	Convey("Given the postgres driver", t, func() {
		db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "y.db"))
		So(err, ShouldBeNil)
		defer db.Close()

		s, err := New(db, DriverPostgres, WithTable("scouting"))
		So(err, ShouldBeNil)

		Convey("Then queries use numbered placeholders", func() {
			q, err := eventListSelect(s.builder, s.table, 1, 2, model.StageAuto)
			So(err, ShouldBeNil)
			query, _, err := q.ToSql()
			So(err, ShouldBeNil)
			So(query, ShouldEqual, "SELECT AutoEventList FROM scouting WHERE Team = $1 AND Match = $2")
		})
	})
}

func TestSQLStore(t *testing.T) {
	Convey("Given a seeded sqlite store", t, func() {
		ctx := context.Background()
		s := openTestStore(t)

		rows := []model.MatchRow{
			{Team: 254, Match: 2, AutoEvents: []byte(`[{"name":"init","npos":{"x":0.1,"y":0.2},"time":0}]`)},
			{Team: 254, Match: 1, AutoEvents: []byte(`[]`), TeleEvents: []byte(`[{"name":"move","npos":{"x":0.5,"y":0.5},"time":20}]`)},
			{Team: 118, Match: 7},
		}
		for _, r := range rows {
			So(s.PutMatch(ctx, r), ShouldBeNil)
		}

		Convey("When listing teams", func() {
			teams, err := s.Teams(ctx)
			So(err, ShouldBeNil)
			So(teams, ShouldResemble, []int{118, 254})
		})

		Convey("When listing matches for a team", func() {
			matches, err := s.Matches(ctx, 254)
			So(err, ShouldBeNil)
			So(matches, ShouldResemble, []int{1, 2})

			none, err := s.Matches(ctx, 9999)
			So(err, ShouldBeNil)
			So(none, ShouldNotBeNil)
			So(len(none), ShouldEqual, 0)
		})

		Convey("When reading event lists", func() {
			raw, err := s.EventList(ctx, 254, 1, model.StageTeleop)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"move"`)

			raw, err = s.EventList(ctx, 254, 2, model.StageTeleop)
			So(err, ShouldBeNil)
			So(raw, ShouldBeNil)

			_, err = s.EventList(ctx, 254, 99, model.StageAuto)
			So(IsNotFound(err), ShouldBeTrue)

			_, err = s.EventList(ctx, 254, 1, model.Stage("bogus"))
			So(errors.Is(err, ErrInvalidStage), ShouldBeTrue)
		})

		Convey("When a match is put twice", func() {
			So(s.PutMatch(ctx, model.MatchRow{Team: 118, Match: 7, AutoEvents: []byte(`[1]`)}), ShouldBeNil)

			Convey("Then the row is replaced", func() {
				raw, err := s.EventList(ctx, 118, 7, model.StageAuto)
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, "[1]")
				matches, err := s.Matches(ctx, 118)
				So(err, ShouldBeNil)
				So(matches, ShouldResemble, []int{7})
			})
		})

		Convey("When several rows share a match", func() {
			_, err := s.db.ExecContext(ctx, `INSERT INTO match (Team, Match, AutoEventList) VALUES (500, 1, NULL), (500, 1, '["second"]')`)
			So(err, ShouldBeNil)

			Convey("Then the first non-null list is used", func() {
				raw, err := s.EventList(ctx, 500, 1, model.StageAuto)
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, `["second"]`)
			})
		})

		Convey("When the store is closed", func() {
			So(s.Close(), ShouldBeNil)
			_, err := s.Teams(ctx)
			So(errors.Is(err, ErrQuery), ShouldBeTrue)
		})
	})
}

func TestSQLStoreCustomTable(t *testing.T) {
	Convey("Given a store on a custom table", t, func() {
		ctx := context.Background()
		s := openTestStore(t, WithTable("scouting_2024"), WithMaxOpenConns(2))
		So(s.PutMatch(ctx, model.MatchRow{Team: 1, Match: 1}), ShouldBeNil)

		teams, err := s.Teams(ctx)
		So(err, ShouldBeNil)
		So(teams, ShouldResemble, []int{1})
		So(s.db.Stats().MaxOpenConnections, ShouldEqual, 2)
	})
}
