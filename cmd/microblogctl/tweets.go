package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Fetch the global tweet feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Get("/api/tweets"))
		},
	}
	rootCmd.AddCommand(feedCmd)

	var mediaIDs []int64
	postCmd := &cobra.Command{
		Use:   "post TEXT",
		Short: "Post a tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]interface{}{"tweet_data": args[0]}
			if len(mediaIDs) > 0 {
				body["tweet_media_ids"] = mediaIDs
			}
			return show(client().R().SetBody(body).Post("/api/tweets"))
		},
	}
	postCmd.Flags().Int64SliceVarP(&mediaIDs, "media", "m", nil, "Media ids to attach")
	rootCmd.AddCommand(postCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete TWEET_ID",
		Short: "Delete your tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Delete(fmt.Sprintf("/api/tweets/%s", args[0])))
		},
	}
	rootCmd.AddCommand(deleteCmd)

	likeCmd := &cobra.Command{
		Use:   "like TWEET_ID",
		Short: "Like a tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Post(fmt.Sprintf("/api/tweets/%s/likes", args[0])))
		},
	}
	rootCmd.AddCommand(likeCmd)

	unlikeCmd := &cobra.Command{
		Use:   "unlike TWEET_ID",
		Short: "Remove your like from a tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().Delete(fmt.Sprintf("/api/tweets/%s/likes", args[0])))
		},
	}
	rootCmd.AddCommand(unlikeCmd)

	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client().R().SetFile("file", args[0]).Post("/api/medias"))
		},
	}
	rootCmd.AddCommand(uploadCmd)
}
