package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"fygallery/internal/config"
	"fygallery/internal/gallery"
	"fygallery/internal/prefs"
	"fygallery/internal/service"

	"github.com/spf13/cobra"
)

var (
	apiURLFlag   string
	prefsDirFlag string
	searchFlag   string
	sortFlag     string
	svc          *service.Service
)

func cliLogger(msg string) {
	log.Printf("[fygallery-cli] %s", msg)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid image id %q", arg)
	}
	return id, nil
}

// NewRootCmd creates the root command for the CLI application.
// getService opens the service for the resolved settings, which lets tests
// point the commands at a fake server and a temporary preference store.
func NewRootCmd(getService func(settings config.Settings, logger func(string)) (*service.Service, error)) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "fygallery-cli",
		Short: "FyGallery CLI - browse, comment on and like gallery images",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.FromEnv()
			if err != nil {
				return err
			}
			if apiURLFlag != "" {
				settings.APIURL = apiURLFlag
			}
			if prefsDirFlag != "" {
				settings.PrefsDir = prefsDirFlag
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			// A failed command skips PersistentPostRun; release its store.
			if svc != nil {
				svc.Close()
			}
			svc, err = getService(settings, cliLogger)
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if svc != nil {
				svc.Close()
				svc = nil
			}
		},
		SilenceUsage: true,
	}

	// List images
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List images matching --search in --sort order",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := gallery.SortMode(sortFlag)
			if !mode.Valid() {
				return fmt.Errorf("unknown sort %q (want recent, likes or oldest)", sortFlag)
			}
			entries, err := svc.ListImages(cmd.Context(), searchFlag, mode)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println(gallery.NoImagesMessage)
				return nil
			}
			for _, e := range entries {
				star := ""
				if e.Favorite {
					star = " ★"
				}
				cmd.Printf("#%d\t%s\t♥ %d\t%s%s\n", e.ID, e.Title, e.Likes, e.Filename, star)
			}
			return nil
		},
	}
	listCmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Match titles and descriptions")
	listCmd.Flags().StringVar(&sortFlag, "sort", string(gallery.SortRecent), "recent, likes or oldest")
	rootCmd.AddCommand(listCmd)

	// Comments of an image
	commentsCmd := &cobra.Command{
		Use:   "comments [id]",
		Short: "Show the comments of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			comments, err := svc.ListComments(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				cmd.Println(gallery.NoCommentsMessage)
				return nil
			}
			for _, c := range comments {
				date := c.CreatedAt
				if t, err := c.Created(); err == nil {
					date = t.Format(gallery.DefaultCommentDateLayout)
				}
				cmd.Printf("%s  %s: %s\n", date, c.Email, c.Text)
			}
			return nil
		},
	}
	rootCmd.AddCommand(commentsCmd)

	// Publish a comment
	commentCmd := &cobra.Command{
		Use:   "comment [id] [email] [text...]",
		Short: "Publish a comment on an image",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := svc.PostComment(cmd.Context(), id, args[1], strings.Join(args[2:], " ")); err != nil {
				return err
			}
			cmd.Println(gallery.CommentPublishedMessage)
			return nil
		},
	}
	rootCmd.AddCommand(commentCmd)

	// Toggle a like
	likeCmd := &cobra.Command{
		Use:   "like [id] [email]",
		Short: "Like an image, or remove the like sent from email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := svc.ToggleLike(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			msg := gallery.LikeRemovedMessage
			if res.Liked {
				msg = gallery.LikeSentMessage
			}
			cmd.Printf("%s (%d likes)\n", msg, res.Likes)
			return nil
		},
	}
	rootCmd.AddCommand(likeCmd)

	// Toggle a local favorite
	favoriteCmd := &cobra.Command{
		Use:   "favorite [id]",
		Short: "Mark or unmark an image as favorite on this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			on, img, err := svc.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			if on {
				cmd.Printf("Added '%s' to favorites\n", img.Title)
			} else {
				cmd.Printf("Removed '%s' from favorites\n", img.Title)
			}
			return nil
		},
	}
	rootCmd.AddCommand(favoriteCmd)

	// List favorites
	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "List local favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := svc.ListFavorites()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("No favorites yet.")
				return nil
			}
			for _, r := range records {
				cmd.Printf("#%d\t%s\n", r.ID, r.Title)
			}
			return nil
		},
	}
	rootCmd.AddCommand(favoritesCmd)

	// Download an image
	downloadCmd := &cobra.Command{
		Use:   "download [id] [directory]",
		Short: "Save an image and print its size and EXIF data",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 2 {
				dir = args[1]
			}
			path, info, err := svc.Download(cmd.Context(), id, dir)
			if err != nil {
				return err
			}
			cmd.Printf("Saved %s\n", path)
			if info == nil {
				return nil
			}
			cmd.Printf("  %s %dx%d, %d bytes\n", info.Format, info.Width, info.Height, info.Size)
			for _, k := range info.EXIFKeys() {
				cmd.Printf("  %s: %s\n", k, info.EXIFData[k])
			}
			return nil
		},
	}
	rootCmd.AddCommand(downloadCmd)

	// Show or set the theme
	themeCmd := &cobra.Command{
		Use:   "theme [dark|light]",
		Short: "Show or set the desktop theme preference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := svc.SetTheme(args[0]); err != nil {
					return err
				}
			}
			cmd.Println(svc.Theme())
			return nil
		},
	}
	rootCmd.AddCommand(themeCmd)

	// Define persistent flags on the rootCmd returned by NewRootCmd
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api", "", "Gallery API base URL (default $"+config.EnvAPIURL+" or "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&prefsDirFlag, "prefs", "", "Directory of the preferences database")

	return rootCmd
}

func openService(settings config.Settings, logger func(string)) (*service.Service, error) {
	store, err := prefs.Open(settings.PrefsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	client, err := settings.NewClient(logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return service.NewService(client, store, logger), nil
}

func main() {
	rootCmd := NewRootCmd(openService)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
