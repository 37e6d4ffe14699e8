package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
)

const (
	GroupCount  = 7
	FacesPerDie = 6
)

// Group 是字母分组（1~7），决定骰子使用哪张骰面表。
type Group int

func (g Group) Valid() bool {
	return g >= 1 && g <= GroupCount
}

type GroupDef struct {
	Group Group
	Name  string
	Color string
	Faces [FacesPerDie]Face
}

// Rules 是一份只读的规则表：加载后不再修改，按指针在各处共享。
type Rules struct {
	title       string
	groups      [GroupCount + 1]GroupDef
	letters     map[rune]Group
	removal     []Group
	repair      []Group
	removalRank [GroupCount + 1]int
	repairRank  [GroupCount + 1]int
}

type groupFile struct {
	Group int      `json:"group"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Faces []string `json:"faces"`
}

type rulesFile struct {
	Title           string         `json:"title"`
	Groups          []groupFile    `json:"groups"`
	Letters         map[string]int `json:"letters"`
	RemovalPriority []int          `json:"removal_priority"`
	RepairPriority  []int          `json:"repair_priority"`
}

//go:embed default_rules.json
var defaultRules []byte

var (
	defaultOnce sync.Once
	defaultConf *Rules
	defaultErr  error
)

// Default 返回内置规则表（只解析一次）。
func Default() (*Rules, error) {
	defaultOnce.Do(func() {
		defaultConf, defaultErr = Parse(defaultRules)
	})
	return defaultConf, defaultErr
}

// MustDefault 内置规则表损坏属于编译期问题，直接 panic。
func MustDefault() *Rules {
	r, err := Default()
	if err != nil {
		panic(fmt.Errorf("load default rules failed: %w", err))
	}
	return r
}

// Load 为空路径时使用内置规则，否则读取覆盖文件。
func Load(path string) (*Rules, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rules failed: read %q: %w", path, err)
	}
	r, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("load rules failed: %q: %w", path, err)
	}
	return r, nil
}

// Parse 解析并校验规则 JSON。
func Parse(raw []byte) (*Rules, error) {
	var f rulesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}

	r := &Rules{
		title:   f.Title,
		letters: make(map[rune]Group, len(f.Letters)),
	}

	if len(f.Groups) != GroupCount {
		return nil, fmt.Errorf("want %d groups, got %d", GroupCount, len(f.Groups))
	}
	for _, g := range f.Groups {
		def, err := parseGroup(g)
		if err != nil {
			return nil, err
		}
		if r.groups[def.Group].Group != 0 {
			return nil, fmt.Errorf("duplicate group %d", def.Group)
		}
		r.groups[def.Group] = def
	}

	if len(f.Letters) == 0 {
		return nil, fmt.Errorf("letter table is empty")
	}
	for letter, g := range f.Letters {
		runes := []rune(letter)
		if len(runes) != 1 || runes[0] < 'A' || runes[0] > 'Z' {
			return nil, fmt.Errorf("invalid letter %q: want a single uppercase A-Z", letter)
		}
		if !Group(g).Valid() {
			return nil, fmt.Errorf("letter %q maps to unknown group %d", letter, g)
		}
		r.letters[runes[0]] = Group(g)
	}

	var err error
	if r.removal, err = parsePriority("removal_priority", f.RemovalPriority); err != nil {
		return nil, err
	}
	if r.repair, err = parsePriority("repair_priority", f.RepairPriority); err != nil {
		return nil, err
	}
	for i, g := range r.removal {
		r.removalRank[g] = i
	}
	for i, g := range r.repair {
		r.repairRank[g] = i
	}
	return r, nil
}

func parseGroup(g groupFile) (GroupDef, error) {
	def := GroupDef{Group: Group(g.Group), Name: g.Name, Color: g.Color}
	if !def.Group.Valid() {
		return def, fmt.Errorf("unknown group %d", g.Group)
	}
	if len(g.Faces) != FacesPerDie {
		return def, fmt.Errorf("group %d: want %d faces, got %d", g.Group, FacesPerDie, len(g.Faces))
	}
	for i, token := range g.Faces {
		face, err := ParseFace(token)
		if err != nil {
			return def, fmt.Errorf("group %d: %w", g.Group, err)
		}
		if err := validateFace(face); err != nil {
			return def, fmt.Errorf("group %d face %d: %w", g.Group, i, err)
		}
		def.Faces[i] = face
	}
	return def, nil
}

func validateFace(f Face) error {
	switch {
	case f.Kind.IsDamage():
		if _, ok := DamageTier(f.Magnitude); !ok || f.Magnitude != math.Trunc(f.Magnitude) {
			return fmt.Errorf("damage magnitude %v out of tiers 1..%d", f.Magnitude, DamageTiers)
		}
	case f.Kind == KindShield:
		if _, ok := ShieldTier(f.Magnitude); !ok {
			return fmt.Errorf("shield magnitude %v not in {0.5, 1, 2}", f.Magnitude)
		}
	case f.Kind == KindNegate, f.Kind == KindMultiply, f.Kind == KindRepair:
		if f.Magnitude != math.Trunc(f.Magnitude) {
			return fmt.Errorf("%s magnitude %v must be an integer", f.Kind, f.Magnitude)
		}
	}
	return nil
}

func parsePriority(name string, order []int) ([]Group, error) {
	if len(order) != GroupCount {
		return nil, fmt.Errorf("%s: want %d groups, got %d", name, GroupCount, len(order))
	}
	seen := make(map[int]bool, GroupCount)
	out := make([]Group, 0, GroupCount)
	for _, g := range order {
		if !Group(g).Valid() || seen[g] {
			return nil, fmt.Errorf("%s: %v is not a permutation of 1..%d", name, order, GroupCount)
		}
		seen[g] = true
		out = append(out, Group(g))
	}
	return out, nil
}

func (r *Rules) Title() string {
	return r.title
}

// GroupOf 查字母所属分组；只接受大写字母。
func (r *Rules) GroupOf(letter rune) (Group, bool) {
	g, ok := r.letters[letter]
	return g, ok
}

func (r *Rules) Faces(g Group) [FacesPerDie]Face {
	return r.groups[g].Faces
}

func (r *Rules) GroupDef(g Group) GroupDef {
	return r.groups[g]
}

// RemovalRank 越小越先被移除。
func (r *Rules) RemovalRank(g Group) int {
	return r.removalRank[g]
}

// RepairRank 越小越先被修复。
func (r *Rules) RepairRank(g Group) int {
	return r.repairRank[g]
}

func (r *Rules) RemovalPriority() []Group {
	return append([]Group(nil), r.removal...)
}

func (r *Rules) RepairPriority() []Group {
	return append([]Group(nil), r.repair...)
}

// GroupView 是对外展示用的分组信息。
type GroupView struct {
	Group int      `json:"group"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Faces []string `json:"faces"`
}

type View struct {
	Title           string         `json:"title"`
	Groups          []GroupView    `json:"groups"`
	Letters         map[string]int `json:"letters"`
	RemovalPriority []int          `json:"removal_priority"`
	RepairPriority  []int          `json:"repair_priority"`
}

// View 生成规则表的只读快照，供 HTTP/WS/CLI 输出。
func (r *Rules) View() View {
	v := View{
		Title:   r.title,
		Groups:  make([]GroupView, 0, GroupCount),
		Letters: make(map[string]int, len(r.letters)),
	}
	for g := Group(1); g <= GroupCount; g++ {
		def := r.groups[g]
		faces := make([]string, 0, FacesPerDie)
		for _, f := range def.Faces {
			faces = append(faces, f.String())
		}
		v.Groups = append(v.Groups, GroupView{Group: int(g), Name: def.Name, Color: def.Color, Faces: faces})
	}
	for letter, g := range r.letters {
		v.Letters[string(letter)] = int(g)
	}
	for _, g := range r.removal {
		v.RemovalPriority = append(v.RemovalPriority, int(g))
	}
	for _, g := range r.repair {
		v.RepairPriority = append(v.RepairPriority, int(g))
	}
	return v
}

// LettersOf 返回某分组下的所有字母（按字母序）。
func (r *Rules) LettersOf(g Group) []string {
	var out []string
	for letter, lg := range r.letters {
		if lg == g {
			out = append(out, string(letter))
		}
	}
	sort.Strings(out)
	return out
}
