package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"servicedirectory/pkg/client"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			var view client.SearchView
			if err := view.Refresh(cmd.Context(), c); err != nil {
				return err
			}
			printServices(cmd.OutOrStdout(), view.Results)
			return nil
		},
	}
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var form client.SearchForm
	var details bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search services by postal code and category",
		Long: "Search services by postal code and category (" + strings.Join(client.Categories, ", ") + "). " +
			"Without --pincode the last postal code searched is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if form.Pincode == "" {
				if s, err := c.Sessions().Load(); err == nil {
					form.Pincode = s.Pincode
				}
			}

			var view client.SearchView
			if err := view.Search(cmd.Context(), c, form); err != nil {
				return err
			}
			if len(view.Results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No services found.")
				return nil
			}
			if details {
				for _, s := range view.Results {
					printDetails(cmd.OutOrStdout(), s)
				}
				return nil
			}
			printServices(cmd.OutOrStdout(), view.Results)
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Pincode, "pincode", "p", "", "postal code")
	cmd.Flags().StringVarP(&form.Category, "category", "c", "", "service category")
	cmd.Flags().BoolVar(&details, "details", false, "show address, map link and prayer timings")
	return cmd
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	var form client.SubmissionForm
	var timings []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a new service listing (requires login)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if form.Pincode == "" {
				if s, err := c.Sessions().Load(); err == nil {
					form.Pincode = s.Pincode
				}
			}
			if form.PrayerTimings, err = parsePrayerTimings(timings); err != nil {
				return err
			}

			svc, msg, err := c.AddService(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", msg, svc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.ServiceName, "name", "", "service name")
	cmd.Flags().StringVarP(&form.Pincode, "pincode", "p", "", "postal code (default: last searched)")
	cmd.Flags().StringVarP(&form.Category, "category", "c", "", "service category")
	cmd.Flags().StringVar(&form.Address, "address", "", "street address")
	cmd.Flags().StringVar(&form.OpenTime, "open", "", "opening time")
	cmd.Flags().StringVar(&form.CloseTime, "close", "", "closing time")
	cmd.Flags().StringVar(&form.GmapLink, "map", "", "map link")
	cmd.Flags().StringSliceVar(&form.ImagePaths, "image", nil, "image file to attach (repeatable)")
	cmd.Flags().StringArrayVar(&timings, "prayer", nil, "prayer timing as name=azan[/iqamah], e.g. fajr=05:10/05:30 (repeatable)")
	return cmd
}

// parsePrayerTimings parses name=azan[/iqamah] values.
func parsePrayerTimings(values []string) (map[string]client.PrayerTime, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]client.PrayerTime, len(values))
	for _, v := range values {
		name, times, ok := strings.Cut(v, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" || strings.TrimSpace(times) == "" {
			return nil, fmt.Errorf("invalid prayer timing %q, want name=azan[/iqamah]", v)
		}
		azan, iqamah, _ := strings.Cut(times, "/")
		out[name] = client.PrayerTime{Azan: strings.TrimSpace(azan), Iqamah: strings.TrimSpace(iqamah)}
	}
	return out, nil
}

func newLocateCmd(opts *globalOptions) *cobra.Command {
	var lat, lng float64
	var apiKey string

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve coordinates to a postal code and remember it for search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("OPENCAGE_API_KEY")
			}
			if apiKey == "" {
				return errors.New("an OpenCage API key is required (--key or OPENCAGE_API_KEY)")
			}
			code, err := client.NewPostalCodeLocator(apiKey, "").PostalCode(cmd.Context(), lat, lng)
			if err != nil {
				return err
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.Sessions().SetPincode(code); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().StringVar(&apiKey, "key", "", "OpenCage API key")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func printServices(w io.Writer, services []client.Service) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tPINCODE\tHOURS\tADDRESS")
	for _, s := range services {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s-%s\t%s\n", s.ServiceName, s.ServiceType, s.Pincode, s.OpenTime, s.CloseTime, s.Address)
	}
	_ = tw.Flush()
}

func printDetails(w io.Writer, s client.Service) {
	fmt.Fprintf(w, "%s (%s)\n", s.ServiceName, s.ServiceType)
	fmt.Fprintf(w, "  %s - %s\n", s.Address, s.Pincode)
	fmt.Fprintf(w, "  Open %s to %s\n", s.OpenTime, s.CloseTime)
	if s.GmapLink != "" {
		fmt.Fprintf(w, "  Map: %s\n", s.GmapLink)
	}
	if len(s.PrayerTimings) > 0 {
		names := make([]string, 0, len(s.PrayerTimings))
		for name := range s.PrayerTimings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pt := s.PrayerTimings[name]
			if pt.Iqamah != "" {
				fmt.Fprintf(w, "  %-8s azan %s  iqamah %s\n", name, pt.Azan, pt.Iqamah)
			} else {
				fmt.Fprintf(w, "  %-8s azan %s\n", name, pt.Azan)
			}
		}
	}
	for _, img := range s.Images {
		fmt.Fprintf(w, "  Image: %s\n", img)
	}
}
