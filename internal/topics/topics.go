// Package topics loads practice and debate prompts.
package topics

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/podium/internal/model"
)

// ErrNoTopics is returned when no topic matches a request.
var ErrNoTopics = errors.New("no topics available")

// MaxDifficulty is the hardest level a topic can have.
const MaxDifficulty = 3

var builtin = []model.Topic{
	{
		ID:          "1",
		Title:       "The Future of Artificial Intelligence",
		Description: "Discuss the potential impact of AI on society and the workforce",
		Category:    "Technology",
		Difficulty:  3,
	},
	{
		ID:          "2",
		Title:       "Climate Change Solutions",
		Description: "Present solutions for addressing climate change at individual and global levels",
		Category:    "Environment",
		Difficulty:  2,
	},
	{
		ID:          "3",
		Title:       "The Importance of Mental Health",
		Description: "Discuss the significance of mental health awareness and support",
		Category:    "Health",
		Difficulty:  1,
	},
	{
		ID:          "4",
		Title:       "Remote Work vs. Office Work",
		Description: "Compare the benefits and challenges of remote and traditional office work",
		Category:    "Business",
		Difficulty:  2,
	},
	{
		ID:          "5",
		Title:       "Social Media and Society",
		Description: "Analyze the impact of social media on modern society and relationships",
		Category:    "Social",
		Difficulty:  3,
	},
}

// Builtin returns a copy of the bundled topics.
func Builtin() []model.Topic {
	return append([]model.Topic(nil), builtin...)
}

// Load reads topics from path, one per line:
//
//	category | difficulty | title | description
//
// Blank lines and lines starting with # are skipped. IDs are assigned as
// "file-<line>".
func Load(path string) ([]model.Topic, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only topic file.
			_ = cerr
		}
	}()

	var out []model.Topic
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topic, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		topic.ID = fmt.Sprintf("file-%d", lineNo)
		out = append(out, topic)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("topic file %s is empty", path)
	}
	return out, nil
}

func parseLine(line string) (model.Topic, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) < 3 {
		return model.Topic{}, fmt.Errorf("expected category | difficulty | title | description")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	level, err := strconv.Atoi(parts[1])
	if err != nil || level < 1 || level > MaxDifficulty {
		return model.Topic{}, fmt.Errorf("difficulty must be 1-%d, got %q", MaxDifficulty, parts[1])
	}
	if parts[2] == "" {
		return model.Topic{}, fmt.Errorf("title is required")
	}
	topic := model.Topic{Category: parts[0], Difficulty: level, Title: parts[2]}
	if len(parts) == 4 {
		topic.Description = parts[3]
	}
	return topic, nil
}

// Catalog returns the built-in topics plus those in path, easiest first.
// An empty path yields only the built-in topics.
func Catalog(path string) ([]model.Topic, error) {
	all := Builtin()
	if path != "" {
		extra, err := Load(path)
		if err != nil {
			return nil, err
		}
		all = append(all, extra...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Difficulty < all[j].Difficulty
	})
	return all, nil
}

// Find returns the topic with the given ID.
func Find(list []model.Topic, id string) (model.Topic, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return model.Topic{}, false
}
