package model_test

import (
	"testing"

	model "github.com/okian/robopath/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventTypes(t *testing.T) {
	convey.Convey("Given the event type enumeration", t, func() {
		all := model.AllEventTypes()

		convey.Convey("Then it lists the checklist order", func() {
			convey.So(len(all), convey.ShouldEqual, 8)
			convey.So(all[0], convey.ShouldEqual, model.EventMove)
			convey.So(all[7], convey.ShouldEqual, model.EventInit)
		})

		convey.Convey("And mutating the returned slice does not leak", func() {
			all[0] = "teleport"
			convey.So(model.AllEventTypes()[0], convey.ShouldEqual, model.EventMove)
		})

		convey.Convey("And membership is case sensitive", func() {
			convey.So(model.EventScoreSpeaker.IsKnown(), convey.ShouldBeTrue)
			convey.So(model.EventType("scorespeaker").IsKnown(), convey.ShouldBeFalse)
			convey.So(model.EventType("").IsKnown(), convey.ShouldBeFalse)
		})
	})
}

func TestStage(t *testing.T) {
	convey.Convey("Given stage names", t, func() {
		convey.Convey("When parsing accepted spellings", func() {
			for in, want := range map[string]model.Stage{
				"":       model.StageAuto,
				"Auto":   model.StageAuto,
				" auto ": model.StageAuto,
				"Teleop": model.StageTeleop,
				"TELEOP": model.StageTeleop,
				"tele":   model.StageTeleop,
			} {
				got, err := model.ParseStage(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, want)
			}
		})

		convey.Convey("When parsing an unknown stage", func() {
			_, err := model.ParseStage("endgame")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Then each stage maps to its column", func() {
			convey.So(model.StageAuto.Column(), convey.ShouldEqual, "AutoEventList")
			convey.So(model.StageTeleop.Column(), convey.ShouldEqual, "TeleEventList")
			convey.So(model.Stages(), convey.ShouldResemble, []model.Stage{model.StageAuto, model.StageTeleop})
		})
	})
}

func TestMatchRow(t *testing.T) {
	convey.Convey("Given a match row", t, func() {
		row := model.MatchRow{Team: 6238, Match: 12}
		convey.So(row.Key(), convey.ShouldResemble, model.MatchKey{Team: 6238, Match: 12})
		convey.So(row.Key().String(), convey.ShouldEqual, "6238/12")
	})
}

func TestEventListKey(t *testing.T) {
	convey.Convey("Given an event list key", t, func() {
		k := model.EventListKey{Team: 6238, Match: 12, Stage: model.StageTeleop}
		convey.So(k.String(), convey.ShouldEqual, "6238/12/Teleop")
	})
}
