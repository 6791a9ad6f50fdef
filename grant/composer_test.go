package grant

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/carewell-hms/permadmin/client"
	"github.com/carewell-hms/permadmin/dto"
	"github.com/carewell-hms/permadmin/fakeapi"
	"github.com/carewell-hms/permadmin/models"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsValid(t *testing.T) {
	Convey("Given a fresh composer", t, func() {
		c := New("u-1")
		So(c.Mode(), ShouldEqual, models.GrantModeGroup)
		So(c.IsValid(), ShouldBeFalse)

		Convey("Group mode needs group, expiry, and reason", func() {
			So(c.SelectGroup("MEDICAL_STAFF"), ShouldBeNil)
			So(c.IsValid(), ShouldBeFalse)
			So(c.SetExpiresInHours(24), ShouldBeNil)
			So(c.IsValid(), ShouldBeFalse)
			c.SetReason("   ")
			So(c.IsValid(), ShouldBeFalse)
			c.SetReason("covering night shift")
			So(c.IsValid(), ShouldBeTrue)

			Convey("Clearing the expiry invalidates the form", func() {
				So(c.SetExpiresInHours(0), ShouldBeNil)
				So(c.IsValid(), ShouldBeFalse)
			})

			Convey("Switching to individual mode drops the group selection", func() {
				So(c.SetMode(models.GrantModeIndividual), ShouldBeNil)
				So(c.IsValid(), ShouldBeFalse)
				So(c.Grant().PermissionGroup, ShouldBeEmpty)
				So(c.SelectPermission("patients.delete"), ShouldBeNil)
				So(c.IsValid(), ShouldBeTrue)

				Convey("and switching back drops the permission", func() {
					So(c.SetMode(models.GrantModeGroup), ShouldBeNil)
					So(c.Grant().Permission, ShouldBeEmpty)
					So(c.IsValid(), ShouldBeFalse)
				})
			})
		})

		Convey("Selections for the inactive mode are refused", func() {
			So(c.SelectPermission("patients.read"), ShouldNotBeNil)
			So(c.SetMode(models.GrantMode("both")), ShouldNotBeNil)
		})

		Convey("Expiry outside one hour to one week is refused", func() {
			So(c.SetExpiresInHours(169), ShouldNotBeNil)
			So(c.SetExpiresInHours(-1), ShouldNotBeNil)
			So(c.SetExpiresInHours(models.MaxGrantHours), ShouldBeNil)
			So(c.SetExpiresInHours(models.MinGrantHours), ShouldBeNil)
		})
	})
}

func TestPayloadValidation(t *testing.T) {
	c := New("u-1")
	_ = c.SetMode(models.GrantModeIndividual)
	_ = c.SelectPermission("not a permission")
	_ = c.SetExpiresInHours(2)
	c.SetReason("audit")

	_, err := c.Payload()
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if fields := ve.Fields(); len(fields) != 1 || fields[0] != "permission" {
		t.Fatalf("unexpected failing fields %v", fields)
	}

	if err := Validate(dto.TemporaryGrantRequest{PermissionGroup: "A", Permission: "patients.read", ExpiresInHours: 1, Reason: "x"}); err == nil {
		t.Fatalf("expected both identifiers to be rejected")
	}
	if err := Validate(dto.TemporaryGrantRequest{PermissionGroup: "A", ExpiresInHours: 1, Reason: "x"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSubmit(t *testing.T) {
	Convey("Given a fake API and a complete group grant", t, func() {
		api := fakeapi.New()
		srv := api.Start()
		Reset(srv.Close)
		users := client.NewClient(&client.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}).Users

		var granted []models.TemporaryGrant
		c := New("u-42", WithOnSuccess(func(g models.TemporaryGrant) { granted = append(granted, g) }))
		_ = c.SelectGroup("MEDICAL_STAFF")
		_ = c.SetExpiresInHours(12)
		c.SetReason(" locum cover ")

		Convey("A successful submit posts once, calls back, and closes", func() {
			So(c.Submit(context.Background(), users), ShouldBeNil)
			So(c.IsOpen(), ShouldBeFalse)
			So(len(granted), ShouldEqual, 1)
			So(granted[0].TargetUserID, ShouldEqual, "u-42")

			grants := api.Grants()
			So(len(grants), ShouldEqual, 1)
			So(grants[0].UserID, ShouldEqual, "u-42")
			So(grants[0].PermissionGroup, ShouldEqual, "MEDICAL_STAFF")
			So(grants[0].Permission, ShouldBeEmpty)
			So(grants[0].Reason, ShouldEqual, "locum cover")

			reqs := api.RequestsTo(http.MethodPost, "/api/users/u-42/permissions/temporary")
			So(len(reqs), ShouldEqual, 1)
			So(reqs[0].Body, ShouldNotContainSubstring, "permission\"")

			Convey("and a closed composer refuses to submit again", func() {
				So(c.Submit(context.Background(), users), ShouldEqual, ErrClosed)
			})
		})

		Convey("A failed submit keeps the form open and intact", func() {
			api.FailOn(http.MethodPost, "/api/users/u-42/permissions/temporary", http.StatusInternalServerError)
			err := c.Submit(context.Background(), users)
			So(err, ShouldNotBeNil)
			So(client.StatusCode(err), ShouldEqual, http.StatusInternalServerError)
			So(c.IsOpen(), ShouldBeTrue)
			So(c.IsValid(), ShouldBeTrue)
			So(c.Grant().PermissionGroup, ShouldEqual, "MEDICAL_STAFF")
			So(granted, ShouldBeEmpty)
		})

		Convey("An incomplete form is never sent", func() {
			c.SetReason("")
			So(c.Submit(context.Background(), users), ShouldEqual, ErrInvalid)
			So(api.Requests(), ShouldBeEmpty)
		})
	})
}
