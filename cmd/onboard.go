package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/shopchat/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize shopchat configuration",
	Long:  `Create the shopchat configuration directory and default config file.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	cfg := config.DefaultConfig()

	var (
		socketURL   string
		uploadURL   string
		assistantID string
		apiKey      string
		cartURL     string
		enableVoice bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Assistant socket URL").
				Description("Websocket endpoint of the storefront assistant.").
				Placeholder("wss://shop.example/assistant").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("required")
					}
					return nil
				}).
				Value(&socketURL),
			huh.NewInput().
				Title("Upload URL").
				Description("Image upload action endpoint. Leave empty to disable photo attachments.").
				Value(&uploadURL),
			huh.NewInput().
				Title("Assistant ID").
				Description("Carried on analytics events.").
				Value(&assistantID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Used for photo descriptions and voice transcription.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Cart URL").
				Description("Add-to-cart action endpoint. Leave empty to disable.").
				Value(&cartURL),
			huh.NewConfirm().
				Title("Enable voice notes?").
				Description("Requires ffmpeg on PATH.").
				Value(&enableVoice),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Assistant.SocketURL = strings.TrimSpace(socketURL)
	cfg.Assistant.UploadURL = strings.TrimSpace(uploadURL)
	cfg.Assistant.AssistantID = strings.TrimSpace(assistantID)
	cfg.Assistant.OpenAI.APIKey = strings.TrimSpace(apiKey)
	cfg.Commerce.CartURL = strings.TrimSpace(cartURL)
	if !enableVoice {
		cfg.Capture.Command = ""
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println("Config written to:", configPath)
	fmt.Println("Start chatting with: shopchat")
	return nil
}
