package mod

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/VillagerBot/internal/warns"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const (
	colorWarn  = 0xF1C40F
	colorInfo  = 0x3498DB
	colorBan   = 0xE74C3C
	colorOK    = 0x2ECC71
	footerText = "💫 - Developed by PancyStudios"
)

// errorMessage turns a service error into the reply shown to the moderator
func errorMessage(err error, liveCount int) string {
	switch {
	case errors.Is(err, warns.ErrUnauthorized):
		return "❌ No tienes permisos para moderar a este usuario."
	case errors.Is(err, warns.ErrInvalidAmount):
		return "❌ La cantidad debe ser mayor que 0."
	case errors.Is(err, warns.ErrInsufficientRecords):
		return fmt.Sprintf("❌ El usuario solo tiene %d advertencias activas.", liveCount)
	case errors.Is(err, warns.ErrStorage):
		return "❌ No se pudo acceder a la base de datos. Inténtalo de nuevo más tarde."
	default:
		return "❌ Ocurrió un error inesperado."
	}
}

func warnEmbed(result *warns.WarnResult, moderator *discordgo.User) *discordgo.MessageEmbed {
	color := colorWarn
	if result.Outcome.Action == warns.ActionBan {
		color = colorBan
	}
	return &discordgo.MessageEmbed{
		Title:       "⚠️ - Advertencia registrada",
		Description: result.Summary(),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Moderador", Value: moderator.Mention(), Inline: true},
			{Name: "ID", Value: "`" + result.Record.ID + "`", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp: result.Record.IssuedAt.Format(time.RFC3339),
	}
}

// warnDM is sent to the warned user; guildName may be empty
func warnDM(result *warns.WarnResult, guildName string) *discordgo.MessageEmbed {
	where := "un servidor"
	if guildName != "" {
		where = "**" + guildName + "**"
	}

	var action string
	switch result.Outcome.Action {
	case warns.ActionTimeout:
		action = fmt.Sprintf("\nHas sido aislado durante %s.", warns.FormatDays(result.Outcome.Duration))
	case warns.ActionBan:
		action = "\nHas sido baneado permanentemente."
	}

	return &discordgo.MessageEmbed{
		Title: "⚠️ - Has recibido una advertencia",
		Description: fmt.Sprintf("Has sido advertido en %s.\n**Razón:** %s\n**Advertencias activas:** %d%s",
			where, reasonText(result.Record.Reason), result.LiveCount, action),
		Color:  colorWarn,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func warnListEmbed(user *discordgo.User, live []models.WarnRecord, now time.Time) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "> 💫 - **Cantidad de advertencias:** %d\n> 🕒 - **Fecha de consulta:** <t:%d:f>\n", len(live), now.Unix())

	if len(live) == 0 {
		b.WriteString("\nNo hay advertencias activas en los últimos 7 días.")
	}
	for i, w := range live {
		fmt.Fprintf(&b, "\n**%d.** %s\n└ <@%s> · <t:%d:R>", i+1, reasonText(w.Reason), w.ModeratorID, w.IssuedAt.Unix())
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", user.Username),
		Description: b.String(),
		Color:       colorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func reasonText(reason string) string {
	if reason == "" {
		return "Sin razón especificada"
	}
	return reason
}

// tempBanDM is sent before the ban is applied, so it announces it rather than confirming it.
func tempBanDM(days int64, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔨 - Vas a ser baneado temporalmente",
		Description: fmt.Sprintf("**Duración:** %d días\n**Razón:** %s", days, reason),
		Color:       colorBan,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func tempBanFailedDM() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "ℹ️ - Baneo cancelado",
		Description: "El baneo temporal anunciado no se aplicó. Sigues siendo miembro del servidor.",
		Color:       colorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}
