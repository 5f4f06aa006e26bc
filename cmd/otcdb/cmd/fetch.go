package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const openFDALabelURL = "https://api.fda.gov/drug/label.json"

var (
	seedPath     string
	rawPath      string
	fetchLimit   int
	requestDelay time.Duration
	httpTimeout  time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch raw openFDA label data for the seed list",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&seedPath, "seed", "dataset/seed_list.txt", "seed list of generic names, one per line")
	fetchCmd.Flags().StringVar(&rawPath, "raw", "dataset/raw_openfda.json", "output path for raw label data")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 1, "label results per seed name")
	fetchCmd.Flags().DurationVar(&requestDelay, "delay", 500*time.Millisecond, "delay between openFDA requests")
	fetchCmd.Flags().DurationVar(&httpTimeout, "timeout", 15*time.Second, "per-request timeout")
}

// rawEntry pairs a seed name with the label data openFDA returned for it.
// LabelRaw is nil when the lookup found nothing.
type rawEntry struct {
	GenericQuery string         `json:"generic_query"`
	LabelRaw     map[string]any `json:"label_raw"`
}

// readSeedList reads one generic name per line, skipping blanks and
// # comments, deduplicating case-insensitively in order.
func readSeedList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed list: %w", err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var names []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		low := strings.ToLower(name)
		if seen[low] {
			continue
		}
		seen[low] = true
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed list: %w", err)
	}

	return names, nil
}

// queryLabel fetches the first label result for a generic name.
// openFDA is queried on both the generic and the brand name field since
// seed lists occasionally carry brand spellings.
func queryLabel(client *http.Client, generic string, limit int) (map[string]any, error) {
	params := url.Values{}
	params.Set("search", fmt.Sprintf("openfda.generic_name:%q OR openfda.brand_name:%q", generic, generic))
	params.Set("limit", fmt.Sprintf("%d", limit))
	if key := os.Getenv("OPENFDA_API_KEY"); key != "" {
		params.Set("api_key", key)
	}

	resp, err := client.Get(openFDALabelURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openFDA returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode openFDA response: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	return payload.Results[0], nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	names, err := readSeedList(seedPath)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d generic names from %s\n", len(names), seedPath)

	client := &http.Client{Timeout: httpTimeout}
	entries := make([]rawEntry, 0, len(names))
	fetched := 0

	for i, name := range names {
		fmt.Printf("Fetching %d/%d: %s\n", i+1, len(names), name)

		label, err := queryLabel(client, name, fetchLimit)
		if err != nil {
			// Per-seed failures are skipped; the command fails only when
			// nothing at all was fetched
			fmt.Fprintf(os.Stderr, "warning: label lookup failed for %s: %v\n", name, err)
		} else if label != nil {
			fetched++
		}

		entries = append(entries, rawEntry{GenericQuery: name, LabelRaw: label})
		time.Sleep(requestDelay)
	}

	if fetched == 0 {
		return fmt.Errorf("no label data fetched for any of %d seed names", len(names))
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode raw entries: %w", err)
	}
	if err := os.WriteFile(rawPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write raw data: %w", err)
	}

	fmt.Printf("Wrote %d raw entries (%d with label data) to %s\n", len(entries), fetched, rawPath)
	return nil
}
