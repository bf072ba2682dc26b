package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Offline analysis over the enriched broadcasts CSV: per-horizon win rates,
// average variance, and the most successful broadcasters.

type horizonStats struct {
	label    string
	varCol   string
	wonCol   string
	settled  int
	won      int
	varSum   float64
	varCount int
}

func main() {
	filePath := flag.String("file", "./data/enriched_broadcasts.csv", "Path to enriched broadcasts CSV")
	topK := flag.Int("top", 10, "Number of top broadcasters to show")
	flag.Parse()

	f, err := os.Open(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", *filePath, err)
		os.Exit(1)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read header: %v\n", err)
		os.Exit(1)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	horizons := []*horizonStats{
		{label: "30s", varCol: "price_30s_variance", wonCol: "won_30s"},
		{label: "1m", varCol: "price_1m_variance", wonCol: "won_1m"},
		{label: "5m", varCol: "price_5m_variance", wonCol: "won_5m"},
	}

	total := 0
	winsByUser := make(map[string]int)
	broadcastsByUser := make(map[string]int)

	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		total++
		username := cell(row, col, "user_username")
		broadcastsByUser[username]++

		for _, h := range horizons {
			wonRaw := cell(row, col, h.wonCol)
			if wonRaw == "" {
				continue
			}
			h.settled++
			if won, err := strconv.ParseBool(strings.ToLower(wonRaw)); err == nil && won {
				h.won++
				winsByUser[username]++
			}
			if v, err := strconv.ParseFloat(cell(row, col, h.varCol), 64); err == nil {
				h.varSum += v
				h.varCount++
			}
		}
	}

	fmt.Println(strings.Repeat("=", 64))
	fmt.Println("BROADCAST OUTCOME ANALYSIS")
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("\nTotal broadcasts: %d\n\n", total)

	fmt.Printf("%-8s %10s %8s %10s %14s\n", "Horizon", "Settled", "Won", "Win rate", "Avg variance")
	for _, h := range horizons {
		winRate := 0.0
		if h.settled > 0 {
			winRate = float64(h.won) / float64(h.settled) * 100
		}
		avgVar := 0.0
		if h.varCount > 0 {
			avgVar = h.varSum / float64(h.varCount)
		}
		fmt.Printf("%-8s %10d %8d %9.1f%% %13.2f%%\n", h.label, h.settled, h.won, winRate, avgVar)
	}

	type userWins struct {
		name string
		wins int
	}
	ranked := make([]userWins, 0, len(winsByUser))
	for name, wins := range winsByUser {
		ranked = append(ranked, userWins{name, wins})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].wins != ranked[j].wins {
			return ranked[i].wins > ranked[j].wins
		}
		return ranked[i].name < ranked[j].name
	})

	fmt.Printf("\nTop broadcasters by horizon wins:\n")
	for i, u := range ranked {
		if i >= *topK {
			break
		}
		fmt.Printf("%2d. %-24s %3d wins across %d broadcasts\n", i+1, u.name, u.wins, broadcastsByUser[u.name])
	}
}

func cell(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
