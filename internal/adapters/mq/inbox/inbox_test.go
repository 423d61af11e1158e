package inbox

import (
	"context"
	"testing"

	"github.com/okian/shoresquad/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInbox(t *testing.T) {
	Convey("Given an inbox with room for two", t, func() {
		b := New(2)
		ctx := context.Background()

		Convey("When three notifications arrive", func() {
			for _, id := range []string{"a", "b", "c"} {
				So(b.Deliver(ctx, model.Notification{ID: id}), ShouldBeNil)
			}

			Convey("Then the oldest is discarded", func() {
				So(b.Len(), ShouldEqual, 2)
				got := b.Drain()
				So(got[0].ID, ShouldEqual, "b")
				So(got[1].ID, ShouldEqual, "c")
			})

			Convey("And draining empties it", func() {
				_ = b.Drain()
				So(b.Len(), ShouldEqual, 0)
				So(b.Drain(), ShouldBeEmpty)
				So(b.Drain(), ShouldNotBeNil)
			})
		})

		Convey("When the limit is not positive", func() {
			So(New(0).limit, ShouldEqual, defaultLimit)
		})
	})
}
