package fonts

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/storeshot/pkg/errors"
)

// DefaultSystemNames lists font files tried, in order, for each weight.
var DefaultSystemNames = map[Weight][]string{
	Regular: {"SFNS.ttf", "SFNSDisplay.ttf", "Helvetica.ttf", "Arial.ttf", "DejaVuSans.ttf", "LiberationSans-Regular.ttf"},
	Bold:    {"SFNSDisplay-Bold.ttf", "Arial Bold.ttf", "Arial_Bold.ttf", "DejaVuSans-Bold.ttf", "LiberationSans-Bold.ttf"},
}

// System looks fonts up in the platform font directories. Fonts that cannot
// be found or parsed are served by Fallback; a nil Fallback means the
// embedded sans family.
type System struct {
	Names    map[Weight][]string
	Fallback Provider
	Logger   *log.Logger

	once  sync.Once
	fonts map[Weight]*truetype.Font
}

// NewSystem returns a System provider using DefaultSystemNames.
func NewSystem(logger *log.Logger) *System {
	return &System{Names: DefaultSystemNames, Logger: logger}
}

func (s *System) load() {
	s.fonts = make(map[Weight]*truetype.Font)
	for weight, names := range s.Names {
		for _, name := range names {
			f, path, err := findAndParse(name)
			if err != nil {
				continue
			}
			s.fonts[weight] = f
			if s.Logger != nil {
				s.Logger.Debug("system font", "weight", weight, "path", path)
			}
			break
		}
	}
}

func findAndParse(name string) (*truetype.Font, string, error) {
	path, err := findfont.Find(name)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeFontNotFound, err, "find %s", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, errors.Wrap(errors.ErrCodeFontNotFound, err, "read %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, path, errors.Wrap(errors.ErrCodeFontNotFound, err, "parse %s", path)
	}
	return f, path, nil
}

// Face returns a system face, or the fallback's face when no font for
// weight was found.
func (s *System) Face(size float64, weight Weight) (font.Face, error) {
	s.once.Do(s.load)
	if f, ok := s.fonts[weight]; ok {
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     DPI,
			Hinting: font.HintingFull,
		}), nil
	}
	if s.Fallback != nil {
		return s.Fallback.Face(size, weight)
	}
	return Embedded{}.Face(size, weight)
}

// Found reports whether a system font was located for weight.
func (s *System) Found(weight Weight) bool {
	s.once.Do(s.load)
	_, ok := s.fonts[weight]
	return ok
}

// ForName returns the provider selected by a config value: "system" for
// [System], "mono" for the embedded monospace family, anything else for the
// embedded sans family.
func ForName(name string, logger *log.Logger) Provider {
	switch name {
	case "system":
		return NewSystem(logger)
	case "mono":
		return Embedded{Family: FamilyMono}
	default:
		return Embedded{Family: FamilySans}
	}
}
