package utils

import (
	"fmt"
	"runtime"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/config"
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createStatusCommand(storage StorageStatus) *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		func(ctx *discord.CommandContext) error {
			return statusHandler(ctx, storage)
		},
	)
}

func statusHandler(ctx *discord.CommandContext, storage StorageStatus) error {
	dbStatus := "Desconocido"
	if storage != nil {
		dbStatus, _ = storage()
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title: "📊 Estado del Bot",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 Versión", Value: config.Version, Inline: true},
			{Name: "🗄 Base de datos", Value: dbStatus, Inline: true},
			{Name: "🏠 Servidores", Value: fmt.Sprintf("%d", ctx.Client.GuildCount()), Inline: true},
			{Name: "🖥 RAM", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
			{Name: "🏓 Latencia", Value: fmt.Sprintf("%dms", ctx.Client.Latency().Milliseconds()), Inline: true},
			{Name: "⏱ Uptime", Value: formatDuration(ctx.Client.Uptime()), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// formatDuration renders d as "1d 2h 3m 4s", dropping leading zero units
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
