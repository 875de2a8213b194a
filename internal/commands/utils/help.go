package utils

import (
	"github.com/PancyStudios/VillagerBot/pkg/discord"
)

const helpText = "📖 **Ayuda de VillagerBot**\n\n" +
	"**Utilidades:**\n" +
	"• `/utils hello` - Saluda al aldeano\n" +
	"• `/utils ping` - Comprueba la latencia\n" +
	"• `/utils serverinfo` - Información del servidor\n" +
	"• `/utils speak <mensaje> [canal]` - Haz que el bot hable\n" +
	"• `/utils coinflip` - Lanza una moneda\n" +
	"• `/utils 8ball <pregunta>` - Pregunta al oráculo\n" +
	"• `/utils attack <usuario>` - Ataca a alguien (de broma)\n" +
	"• `/utils status` - Estado del bot\n\n" +
	"**Moderación:**\n" +
	"• `/mod warn <usuario> [razón]` - Advierte a un usuario\n" +
	"• `/mod warns [usuario]` - Lista las advertencias activas\n" +
	"• `/mod removewarns <usuario> <cantidad>` - Elimina las advertencias más recientes\n" +
	"• `/mod prunewarns <usuario>` - Purga las advertencias caducadas\n" +
	"• `/mod mute <usuario> <minutos> [razón]` - Silencia a un usuario\n" +
	"• `/mod tempban <usuario> <días> [razón]` - Banea temporalmente\n" +
	"• `/mod ban <usuario> [razón]` - Banea a un usuario\n\n" +
	"**Escalado de advertencias (últimos 7 días):**\n" +
	"2 → aislamiento de 1 día · 3 → 7 días · 4 → 14 días · 5 → baneo permanente"

func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEphemeral(helpText)
		},
	)
}
