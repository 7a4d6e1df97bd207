package main

import (
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"
)

var (
	topics = []string{"Fractions", "Photosynthesis", "Past Simple", "Volcanoes", "Prime Numbers", "The Water Cycle"}
	words  = []string{
		"energy", "whole", "part", "light", "water", "number", "verb", "layer",
		"pressure", "divide", "cycle", "cell", "rule", "example", "sum", "root",
	}
)

// Prints a deterministic study note that exercises every block kind.
// Pipe it into `mriynyk-cli read` or `mriynyk-cli render --pages`.
func main() {
	seed := flag.Int64("seed", 42, "random seed")
	sections := flag.Int("sections", 4, "number of sections")
	flag.Parse()

	mr := mrand.New(mrand.NewSource(*seed))
	var b strings.Builder
	topic := topics[mr.Intn(len(topics))]
	fmt.Fprintf(&b, "# %s\n\n", topic)
	for i := 0; i < *sections; i++ {
		fmt.Fprintf(&b, "## Part %d\n\n", i+1)
		b.WriteString(sentence(mr) + "\n" + sentence(mr) + "\n\n")
		switch i % 3 {
		case 0:
			for j := 0; j < 2+mr.Intn(3); j++ {
				fmt.Fprintf(&b, "%d. %s\n", j+1, sentence(mr))
			}
		case 1:
			for j := 0; j < 2+mr.Intn(3); j++ {
				fmt.Fprintf(&b, "- **%s**: %s\n", words[mr.Intn(len(words))], sentence(mr))
			}
		default:
			fmt.Fprintf(&b, "```text\n%s\n```\n", sentence(mr))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "See [more about %s](https://example.org/%s).\n", topic, strings.ToLower(strings.ReplaceAll(topic, " ", "-")))

	if _, err := os.Stdout.WriteString(b.String()); err != nil {
		panic(err)
	}
}

func sentence(r *mrand.Rand) string {
	n := 5 + r.Intn(8)
	out := make([]string, n)
	for i := range out {
		out[i] = words[r.Intn(len(words))]
	}
	if r.Intn(3) == 0 {
		out[r.Intn(n)] = "`" + out[0] + "`"
	}
	out[0] = strings.ToUpper(out[0][:1]) + out[0][1:]
	return strings.Join(out, " ") + "."
}
