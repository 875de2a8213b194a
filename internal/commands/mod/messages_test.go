package mod

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/VillagerBot/internal/warns"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", warns.ErrUnauthorized, "No tienes permisos"},
		{"invalid amount", warns.ErrInvalidAmount, "mayor que 0"},
		{"insufficient", fmt.Errorf("remove: %w", warns.ErrInsufficientRecords), "solo tiene 2"},
		{"storage", &warns.StorageError{Op: "append", Err: fmt.Errorf("timeout")}, "base de datos"},
		{"unknown", fmt.Errorf("boom"), "inesperado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, errorMessage(tt.err, 2), tt.want)
		})
	}
}

func TestWarnEmbedColorsBans(t *testing.T) {
	mod := &discordgo.User{ID: "m"}
	result := &warns.WarnResult{
		Record:    models.WarnRecord{ID: "w1", UserID: "u", IssuedAt: time.Now()},
		LiveCount: 5,
		Outcome:   warns.Decide(5),
	}

	embed := warnEmbed(result, mod)
	assert.Equal(t, colorBan, embed.Color)
	assert.Contains(t, embed.Description, "baneo permanente")

	result.LiveCount = 2
	result.Outcome = warns.Decide(2)
	assert.Equal(t, colorWarn, warnEmbed(result, mod).Color)
}

func TestWarnDM(t *testing.T) {
	result := &warns.WarnResult{
		Record:    models.WarnRecord{Reason: "spam"},
		LiveCount: 3,
		Outcome:   warns.Decide(3),
	}

	embed := warnDM(result, "Aldea")
	assert.Contains(t, embed.Description, "**Aldea**")
	assert.Contains(t, embed.Description, "spam")
	assert.Contains(t, embed.Description, "7 días")

	assert.Contains(t, warnDM(result, "").Description, "un servidor")
}

func TestWarnListEmbed(t *testing.T) {
	now := time.Now()
	user := &discordgo.User{Username: "steve"}

	empty := warnListEmbed(user, nil, now)
	assert.Contains(t, empty.Description, "No hay advertencias activas")

	list := warnListEmbed(user, []models.WarnRecord{
		{ModeratorID: "m1", IssuedAt: now.Add(-time.Hour)},
		{ModeratorID: "m2", Reason: "griefing", IssuedAt: now},
	}, now)
	assert.Equal(t, 2, strings.Count(list.Description, "<@m"))
	assert.Contains(t, list.Description, "Sin razón especificada")
	assert.Contains(t, list.Description, "griefing")
}

func TestTempBanDMAnnouncesPendingBan(t *testing.T) {
	embed := tempBanDM(3, "spam")
	assert.Contains(t, embed.Title, "Vas a ser baneado")
	assert.NotContains(t, embed.Title, "Has sido baneado")
	assert.Contains(t, embed.Description, "3 días")
	assert.Contains(t, embed.Description, "spam")

	assert.Contains(t, tempBanFailedDM().Description, "no se aplicó")
}
