package assignment_test

import (
	"testing"

	assignment "github.com/okian/varsity/internal/domain/assignment"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRule_AppliesTo(t *testing.T) {
	Convey("Given the three rule variants", t, func() {
		Convey("When the rule is all", func() {
			rule := assignment.AllInstitutions()

			Convey("Then it should apply everywhere", func() {
				ok, err := rule.AppliesTo("uct")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the rule is an include list", func() {
			rule := assignment.Include("uct", "wits")

			Convey("Then it should apply only to listed institutions", func() {
				ok, _ := rule.AppliesTo("uct")
				So(ok, ShouldBeTrue)

				ok, _ = rule.AppliesTo("up")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the rule is an exclude list", func() {
			rule := assignment.Exclude("uct")

			Convey("Then it should apply everywhere except the listed institutions", func() {
				ok, _ := rule.AppliesTo("uct")
				So(ok, ShouldBeFalse)

				ok, _ = rule.AppliesTo("wits")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the rule kind is unknown", func() {
			rule := assignment.Rule{Kind: "sometimes"}

			Convey("Then it should fail rather than silently fall through", func() {
				_, err := rule.AppliesTo("uct")
				So(err, ShouldEqual, assignment.ErrUnknownKind)
			})
		})
	})
}

func TestRule_RequiredAPS(t *testing.T) {
	Convey("Given a rule with APS overrides", t, func() {
		rule := assignment.AllInstitutions().WithOverrides(map[string]int{"uct": 38})

		Convey("When the institution carries an override", func() {
			So(rule.RequiredAPS(32, "uct"), ShouldEqual, 38)
		})

		Convey("When the institution does not", func() {
			So(rule.RequiredAPS(32, "wits"), ShouldEqual, 32)
		})
	})
}

func TestRule_ResolvedInstitutions(t *testing.T) {
	Convey("Given a catalog of three institutions", t, func() {
		all := []string{"uct", "wits", "up"}

		Convey("Then exclude rules resolve to the complement", func() {
			So(assignment.Exclude("uct").ResolvedInstitutions(all), ShouldResemble, []string{"wits", "up"})
		})

		Convey("And include rules resolve to the intersection in input order", func() {
			So(assignment.Include("up", "uct").ResolvedInstitutions(all), ShouldResemble, []string{"uct", "up"})
		})

		Convey("And unknown kinds resolve to nothing", func() {
			So(assignment.Rule{Kind: "bogus"}.ResolvedInstitutions(all), ShouldBeNil)
		})
	})
}

func TestRule_Validate(t *testing.T) {
	Convey("Given structural validation against a known-institution set", t, func() {
		known := func(id string) bool { return id == "uct" || id == "wits" }
		all := []string{"uct", "wits"}

		Convey("When the rule is well formed", func() {
			issues := assignment.Include("uct").Validate(known, all)
			So(issues, ShouldBeEmpty)
		})

		Convey("When an include list is empty", func() {
			issues := assignment.Rule{Kind: assignment.KindInclude}.Validate(known, all)

			Convey("Then it should report an error", func() {
				So(len(issues), ShouldBeGreaterThanOrEqualTo, 1)
				So(issues[0].Severity, ShouldEqual, assignment.SeverityError)
				So(issues[0].Message, ShouldContainSubstring, "empty institution list")
			})
		})

		Convey("When a list references an unknown institution", func() {
			issues := assignment.Include("hogwarts").Validate(known, all)

			found := false
			for _, is := range issues {
				if is.Severity == assignment.SeverityError && is.Message == "rule references unknown institution hogwarts" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("When an override references an unknown institution", func() {
			rule := assignment.AllInstitutions().WithOverrides(map[string]int{"hogwarts": 40})
			issues := rule.Validate(known, all)

			So(len(issues), ShouldEqual, 1)
			So(issues[0].Message, ShouldContainSubstring, "APS override references unknown institution")
		})

		Convey("When the resolved institution set is empty", func() {
			issues := assignment.Exclude("uct", "wits").Validate(known, all)

			Convey("Then it should be a warning, not an error", func() {
				So(len(issues), ShouldEqual, 1)
				So(issues[0].Severity, ShouldEqual, assignment.SeverityWarning)
			})
		})

		Convey("When the kind is unknown", func() {
			issues := assignment.Rule{Kind: "bogus"}.Validate(known, all)

			So(len(issues), ShouldEqual, 1)
			So(issues[0].Severity, ShouldEqual, assignment.SeverityError)
		})
	})
}
