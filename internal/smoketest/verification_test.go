package smoketest

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/nutrilookup/internal/domain/model"
)

func TestVerifyItem(t *testing.T) {
	Convey("Given a sent item", t, func() {
		sent := sampleItem(3)

		Convey("When the server returns the same values", func() {
			got := sent
			got.ID = 42
			So(verifyItem(sent, got), ShouldBeNil)
		})

		Convey("When a string field differs", func() {
			got := sent
			got.Name = model.Text("Other")

			err := verifyItem(sent, got)
			So(err, ShouldWrap, ErrMismatch)
			So(err.Error(), ShouldContainSubstring, "name Other, want Smoke Test Burger")
		})

		Convey("When a sent number comes back null", func() {
			got := sent
			got.Protein = model.Value{}

			err := verifyItem(sent, got)
			So(err, ShouldWrap, ErrMismatch)
			So(err.Error(), ShouldContainSubstring, "protein null")
		})

		Convey("When an unsent number comes back set", func() {
			got := sent
			got.Sugars = model.Number(1.5)
			So(verifyItem(sent, got), ShouldWrap, ErrMismatch)
		})

		Convey("When numbers come back in another form", func() {
			got := sent
			got.Calories = model.Text("500.00")
			got.SaturatedFat = model.Number(9.50)
			So(verifyItem(sent, got), ShouldBeNil)
		})

		Convey("When the location differs", func() {
			got := sent
			got.BranchLocationID = 4
			So(verifyItem(sent, got), ShouldWrap, ErrMismatch)
		})
	})
}

func TestContainsID(t *testing.T) {
	Convey("Given a named list", t, func() {
		list := []Named{{ID: 1, Name: "USA"}, {ID: 2, Name: "Canada"}}
		idOf := func(n Named) uint64 { return n.ID }

		So(containsID(list, 2, idOf), ShouldBeTrue)
		So(containsID(list, 3, idOf), ShouldBeFalse)
		So(containsID([]Named{}, 1, idOf), ShouldBeFalse)
	})
}
