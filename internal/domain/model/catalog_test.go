package model

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFoodItemJSON(t *testing.T) {
	Convey("Given a create payload with only some nutrients", t, func() {
		var in NewFoodItem
		err := json.Unmarshal([]byte(`{"branch_location_id":3,"name":"Burger","calories":500,"sodium":1.25}`), &in)
		So(err, ShouldBeNil)

		Convey("Then embedded nutrients should decode at the top level", func() {
			So(in.BranchLocationID, ShouldEqual, uint64(3))
			So(in.Name.String(), ShouldEqual, "Burger")
			So(in.Calories.String(), ShouldEqual, "500")
			So(in.Sodium.String(), ShouldEqual, "1.25")
			So(in.ServingSize.IsNull(), ShouldBeTrue)
			So(in.Protein.IsNull(), ShouldBeTrue)
		})

		Convey("When converted into a row", func() {
			row := in.Row()

			Convey("Then the id is left for the store and fields carry over", func() {
				So(row.ID, ShouldEqual, uint64(0))
				So(row.BranchLocationID, ShouldEqual, uint64(3))
				So(row.Name, ShouldEqual, in.Name)
				So(row.Calories, ShouldEqual, in.Calories)
			})

			Convey("And the row should serialize flat with nulls for absent fields", func() {
				row.ID = 9
				b, err := json.Marshal(row)
				So(err, ShouldBeNil)

				var out map[string]any
				So(json.Unmarshal(b, &out), ShouldBeNil)
				So(out, ShouldContainKey, "branch_location_id")
				So(out["id"], ShouldEqual, 9.0)
				So(out["calories"], ShouldEqual, 500.0)
				So(out["protein"], ShouldBeNil)
				So(out, ShouldContainKey, "protein")
				So(len(out), ShouldEqual, 13)
			})
		})
	})

	Convey("Given a list projection", t, func() {
		facts := NutritionFacts{ID: 1, Name: Text("Fries")}
		b, err := json.Marshal(facts)
		So(err, ShouldBeNil)

		var out map[string]any
		So(json.Unmarshal(b, &out), ShouldBeNil)

		Convey("Then it should carry twelve fields and no location id", func() {
			So(len(out), ShouldEqual, 12)
			So(out, ShouldNotContainKey, "branch_location_id")
			So(out["name"], ShouldEqual, "Fries")
		})
	})
}
