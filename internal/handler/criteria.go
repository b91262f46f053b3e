package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/report"
)

// parseCriteria builds report criteria from query parameters. Absent or
// blank parameters leave the predicate unset.
//
//	?title=&major=&level=&rep=&company=&status=&visible=&minSlots=&openFrom=&closeBy=&sort=
func parseCriteria(q url.Values) (report.Criteria, error) {
	var c report.Criteria
	get := func(key string) (string, bool) {
		v := strings.TrimSpace(q.Get(key))
		return v, v != ""
	}

	if v, ok := get("title"); ok {
		c.Title = report.Some(v)
	}
	if v, ok := get("major"); ok {
		c.Major = report.Some(v)
	}
	if v, ok := get("rep"); ok {
		c.RepresentativeID = report.Some(v)
	}
	if v, ok := get("company"); ok {
		c.CompanyName = report.Some(v)
	}
	if v, ok := get("level"); ok {
		level, err := model.ParseLevel(v)
		if err != nil {
			return c, apperror.ValidationFailed("level", "level must be BASIC, INTERMEDIATE or ADVANCED")
		}
		c.Level = report.Some(level)
	}
	if v, ok := get("status"); ok {
		status, err := model.ParseStatus(v)
		if err != nil {
			return c, apperror.ValidationFailed("status", "status must be PENDING, APPROVED or REJECTED")
		}
		c.Status = report.Some(status)
	}
	if v, ok := get("visible"); ok {
		visible, err := strconv.ParseBool(v)
		if err != nil {
			return c, apperror.ValidationFailed("visible", "visible must be true or false")
		}
		c.Visible = report.Some(visible)
	}
	if v, ok := get("minSlots"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c, apperror.ValidationFailed("minSlots", "minSlots must be a non-negative integer")
		}
		c.MinSlots = report.Some(n)
	}
	if v, ok := get("openFrom"); ok {
		d, err := model.ParseDate(v)
		if err != nil {
			return c, apperror.ValidationFailed("openFrom", "openFrom must be YYYY-MM-DD")
		}
		c.OpenFrom = report.Some(d)
	}
	if v, ok := get("closeBy"); ok {
		d, err := model.ParseDate(v)
		if err != nil {
			return c, apperror.ValidationFailed("closeBy", "closeBy must be YYYY-MM-DD")
		}
		c.CloseBy = report.Some(d)
	}

	sortBy, err := report.ParseSortKey(q.Get("sort"))
	if err != nil {
		return c, apperror.ValidationFailed("sort", "sort must be TITLE, COMPANY, OPEN_DATE, CLOSE_DATE or SLOTS_LEFT")
	}
	c.SortBy = sortBy

	return c, nil
}
