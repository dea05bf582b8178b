package client

import (
	"context"
	"strings"
)

// SearchView holds the result list of the search screen.
type SearchView struct {
	Results []Service

	// Err is the last failure, shown to the user verbatim.
	Err error
}

// Search runs form against c. On success the result list is replaced and the
// postal code is cached in the session store; on failure the previous results
// stay.
func (v *SearchView) Search(ctx context.Context, c *Client, form SearchForm) error {
	results, err := c.SearchServices(ctx, form)
	if err != nil {
		v.Err = err
		return err
	}
	v.Results = results
	v.Err = nil

	if s := c.Sessions(); s != nil {
		_ = s.SetPincode(strings.TrimSpace(form.Pincode))
	}
	return nil
}

// Refresh loads the full list, as on the home screen.
func (v *SearchView) Refresh(ctx context.Context, c *Client) error {
	results, err := c.ListServices(ctx)
	if err != nil {
		v.Err = err
		return err
	}
	v.Results = results
	v.Err = nil
	return nil
}
