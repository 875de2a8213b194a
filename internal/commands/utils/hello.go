package utils

import (
	"fmt"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
)

func createHelloCommand() *discord.Command {
	return discord.NewCommand(
		"hello",
		"¡Saluda al aldeano!",
		"utils",
		helloHandler,
	)
}

func helloHandler(ctx *discord.CommandContext) error {
	return ctx.Reply(fmt.Sprintf("Hrmmm! ¡Hola %s!", ctx.User().Mention()))
}
