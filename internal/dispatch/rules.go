package dispatch

import (
	"strconv"
	"strings"

	"debloat/internal/config"
)

// Kind identifies what an external task does.
type Kind string

const (
	KindAudio  Kind = "audio"
	KindImage  Kind = "image"
	KindSSC    Kind = "ssc"
	KindRemove Kind = "remove"
)

// Message is the progress line logged when a task of this kind launches.
func (k Kind) Message() string {
	switch k {
	case KindAudio:
		return "converting audio"
	case KindImage:
		return "compressing image"
	case KindSSC:
		return "fixing ssc"
	case KindRemove:
		return "removing file"
	default:
		return "running task"
	}
}

// Task is one planned external process.
type Task struct {
	Kind   Kind
	Source string
	// Target is the file the task produces; empty for in-place rewrites and removals.
	Target string
	Args   []string
}

// Settings carries the converter parameters baked into argument vectors.
type Settings struct {
	Tools           config.Tools
	VorbisQuality   float64
	JPEGQuality     int
	BannerGeometry  string
	DefaultGeometry string
}

// SettingsFromConfig extracts dispatcher settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Tools:           cfg.Tools,
		VorbisQuality:   cfg.Audio.VorbisQuality,
		JPEGQuality:     cfg.Image.JPEGQuality,
		BannerGeometry:  cfg.Image.BannerGeometry,
		DefaultGeometry: cfg.Image.DefaultGeometry,
	}
}

// DefaultSettings matches config.Default.
func DefaultSettings() Settings {
	cfg := config.Default()
	return SettingsFromConfig(&cfg)
}

// Rule maps a set of extensions to a task builder, guarded by an exclusion predicate.
type Rule struct {
	Name       string
	Extensions []string
	Exclude    func(File) bool
	Build      func(File, Settings) Task
}

// Matches reports whether the rule applies to f.
func (r Rule) Matches(f File) bool {
	if r.Exclude != nil && r.Exclude(f) {
		return false
	}
	for _, ext := range r.Extensions {
		if f.Ext == ext {
			return true
		}
	}
	return false
}

// protectedParents are directory names whose direct children are never
// converted or removed. The check is on the parent's name only, so a pack
// subfolder called "Songs" is protected just like the library root.
var protectedParents = map[string]struct{}{
	"Songs": {},
	"info":  {},
}

// protectedNames are file names never removed.
var protectedNames = map[string]struct{}{
	"Sort.txt": {},
}

func inProtectedDir(f File) bool {
	_, ok := protectedParents[f.ParentName]
	return ok
}

func protectedFromCleanup(f File) bool {
	if inProtectedDir(f) {
		return true
	}
	_, ok := protectedNames[f.Name]
	return ok
}

// ConversionRules is evaluated in order; the first match wins.
var ConversionRules = []Rule{
	{
		Name:       "mp3 to ogg",
		Extensions: []string{".mp3"},
		Exclude:    inProtectedDir,
		Build:      audioTask,
	},
	{
		Name:       "image to jpeg",
		Extensions: []string{".jpg", ".jpeg", ".png"},
		Exclude:    inProtectedDir,
		Build:      imageTask,
	},
	{
		Name:       "ssc references",
		Extensions: []string{".ssc"},
		Exclude:    inProtectedDir,
		Build:      sscTask,
	},
}

// CleanupRules lists what the cleanup phase deletes.
var CleanupRules = []Rule{
	{
		Name: "superfluous files",
		Extensions: []string{
			".Identifier", ".avi", ".db", ".jpeg", ".mp3",
			".mp4", ".mpg", ".old", ".png", ".txt",
		},
		Exclude: protectedFromCleanup,
		Build:   removeTask,
	},
}

func audioTask(f File, s Settings) Task {
	target := f.WithExt(".ogg")
	return Task{
		Kind:   KindAudio,
		Source: f.Path,
		Target: target,
		Args: []string{
			s.Tools.FFmpeg,
			"-loglevel", "quiet",
			"-y",
			"-i", absolute(f.Path),
			"-c:a", "libvorbis",
			"-q:a", strconv.FormatFloat(s.VorbisQuality, 'f', 1, 64),
			absolute(target),
		},
	}
}

func imageTask(f File, s Settings) Task {
	geometry := s.DefaultGeometry
	if strings.ToLower(f.Stem) == "banner" {
		geometry = s.BannerGeometry
	}
	target := f.WithExt(".jpg")
	return Task{
		Kind:   KindImage,
		Source: f.Path,
		Target: target,
		Args: []string{
			s.Tools.Convert,
			"-quality", strconv.Itoa(s.JPEGQuality),
			// ">" only shrinks images larger than the cap.
			"-resize", geometry + ">",
			absolute(f.Path),
			absolute(target),
		},
	}
}

func sscTask(f File, s Settings) Task {
	return Task{
		Kind:   KindSSC,
		Source: f.Path,
		Args: []string{
			s.Tools.Sed,
			"-i",
			"-e", `s/\.jpeg/\.jpg/g`,
			"-e", `s/\.png/\.jpg/g`,
			"-e", `s/\.mp3/\.ogg/g`,
			absolute(f.Path),
		},
	}
}

func removeTask(f File, s Settings) Task {
	return Task{
		Kind:   KindRemove,
		Source: f.Path,
		Args:   []string{s.Tools.Rm, "-f", absolute(f.Path)},
	}
}
