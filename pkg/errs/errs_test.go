package errs

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorKinds(t *testing.T) {
	Convey("Given classified errors", t, func() {
		cause := errors.New("connection refused")

		Convey("Validation errors match only ErrValidation", func() {
			err := Validation("lookup.branches", "country_id is required")
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
			So(errors.Is(err, ErrNotFound), ShouldBeFalse)
			So(errors.Is(err, ErrStore), ShouldBeFalse)
			So(KindOf(err), ShouldEqual, ErrValidation)
			So(Message(err), ShouldEqual, "country_id is required")
			So(err.Error(), ShouldEqual, "lookup.branches: validation failed: country_id is required")
		})

		Convey("NotFound errors match ErrNotFound", func() {
			err := NotFound("lookup.item", "Item not found")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(KindOf(err), ShouldEqual, ErrNotFound)
			So(Op(err), ShouldEqual, "lookup.item")
		})

		Convey("Store errors keep their cause", func() {
			err := Store("lookup.countries", cause)
			So(errors.Is(err, ErrStore), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(Message(err), ShouldBeEmpty)
			So(err.Error(), ShouldEqual, "lookup.countries: store failure: connection refused")
		})

		Convey("Wrapped errors are still classified", func() {
			err := fmt.Errorf("handler: %w", NotFound("lookup.item", "Item not found"))
			So(KindOf(err), ShouldEqual, ErrNotFound)
			So(Message(err), ShouldEqual, "Item not found")
		})

		Convey("Unclassified errors count as store failures", func() {
			So(KindOf(cause), ShouldEqual, ErrStore)
			So(Message(cause), ShouldBeEmpty)
			So(Op(cause), ShouldBeEmpty)
		})

		Convey("nil has no kind", func() {
			So(KindOf(nil), ShouldBeNil)
		})
	})
}
