package utils

import (
	"fmt"
	"math/rand/v2"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

var eightBallAnswers = []string{
	"Sí, definitivamente.",
	"Es cierto.",
	"Sin duda.",
	"Muy probable.",
	"Las señales apuntan a que sí.",
	"Pregunta de nuevo más tarde.",
	"Mejor no decírtelo ahora.",
	"No cuentes con ello.",
	"Mis fuentes dicen que no.",
	"Muy dudoso.",
}

var attackLines = []string{
	"%s lanza una poción de daño a %s. ¡Hrmmm!",
	"%s golpea a %s con una espada de diamante.",
	"%s dispara una flecha a %s desde lo alto de la aldea.",
	"%s invoca a un gólem de hierro contra %s.",
	"%s le tira un bloque de arena a %s.",
}

// pick returns a random element, intn is injected for tests
func pick(options []string, intn func(int) int) string {
	return options[intn(len(options))]
}

func createCoinflipCommand() *discord.Command {
	return discord.NewCommand(
		"coinflip",
		"Lanza una moneda",
		"utils",
		func(ctx *discord.CommandContext) error {
			return ctx.Reply("🪙 " + pick([]string{"¡Cara!", "¡Cruz!"}, rand.IntN))
		},
	)
}

func create8BallCommand() *discord.Command {
	return discord.NewCommand(
		"8ball",
		"Hazle una pregunta al oráculo",
		"utils",
		func(ctx *discord.CommandContext) error {
			question := ctx.GetStringOption("pregunta")
			return ctx.Reply(fmt.Sprintf("🎱 **%s**\n%s", question, pick(eightBallAnswers, rand.IntN)))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "pregunta",
			Description: "Tu pregunta",
			Required:    true,
			MaxLength:   256,
		},
	)
}

func createAttackCommand() *discord.Command {
	return discord.NewCommand(
		"attack",
		"Ataca a otro usuario (de broma)",
		"utils",
		func(ctx *discord.CommandContext) error {
			target := ctx.GetUserOption("usuario")
			if target == nil {
				return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			}
			return ctx.Reply(fmt.Sprintf("⚔️ "+pick(attackLines, rand.IntN), ctx.User().Mention(), target.Mention()))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a atacar",
			Required:    true,
		},
	)
}
