package escalation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// PolicyTemplate описывает политику по умолчанию без привязки к фирме.
type PolicyTemplate struct {
	Tier        string   `yaml:"tier"`
	OffsetHours int      `yaml:"offset_hours"`
	EscalateTo  string   `yaml:"escalate_to"`
	Channels    []string `yaml:"channels"`
	Active      *bool    `yaml:"active"`
}

type policyFile struct {
	Policies []PolicyTemplate `yaml:"policies"`
}

// BuiltinDefaults используются, если файл с политиками не найден.
func BuiltinDefaults() []PolicyTemplate {
	channels := []string{string(valueobject.ChannelInApp), string(valueobject.ChannelEmail)}
	return []PolicyTemplate{
		{Tier: string(valueobject.TierT14D), OffsetHours: 336, EscalateTo: string(valueobject.TargetAssigned), Channels: channels},
		{Tier: string(valueobject.TierT7D), OffsetHours: 168, EscalateTo: string(valueobject.TargetSupervisor), Channels: channels},
		{Tier: string(valueobject.TierT48H), OffsetHours: 48, EscalateTo: string(valueobject.TargetOwner), Channels: channels},
		{Tier: string(valueobject.TierT24H), OffsetHours: 24, EscalateTo: string(valueobject.TargetPartnerColp), Channels: channels},
	}
}

// LoadDefaults читает шаблоны политик из YAML. Отсутствующий файл не ошибка:
// возвращаются BuiltinDefaults и found=false.
func LoadDefaults(path string) (templates []PolicyTemplate, found bool, err error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return BuiltinDefaults(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("escalation defaults: не удалось прочитать %s: %w", path, err)
	}
	return ParseDefaults(raw)
}

func ParseDefaults(raw []byte) ([]PolicyTemplate, bool, error) {
	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, false, fmt.Errorf("escalation defaults: некорректный YAML: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Policies))
	for _, p := range file.Policies {
		if _, err := valueobject.NewTier(p.Tier); err != nil {
			return nil, false, fmt.Errorf("escalation defaults: %s: %w", p.Tier, err)
		}
		if _, dup := seen[p.Tier]; dup {
			return nil, false, fmt.Errorf("escalation defaults: уровень %s указан дважды", p.Tier)
		}
		seen[p.Tier] = struct{}{}
		if _, err := valueobject.NewEscalationTarget(p.EscalateTo); err != nil {
			return nil, false, fmt.Errorf("escalation defaults: %s: %w", p.Tier, err)
		}
		if _, err := valueobject.NewChannels(p.Channels); err != nil {
			return nil, false, fmt.Errorf("escalation defaults: %s: %w", p.Tier, err)
		}
	}
	return file.Policies, true, nil
}
