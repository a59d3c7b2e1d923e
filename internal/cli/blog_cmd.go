package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/spf13/cobra"
)

func newBlogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Community blog posts and comments",
	}

	cmd.AddCommand(
		newBlogPostCmd(app),
		newBlogListCmd(app),
		newBlogPublishCmd(app),
		newBlogFlagCmd(app),
		newBlogRemoveCmd(app),
		newBlogCommentCmd(app),
		newBlogThreadsCmd(app),
	)

	return cmd
}

func newBlogPostCmd(app *App) *cobra.Command {
	var author, title, body string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create a draft post",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.BlogPost{
				AuthorID: author,
				Title:    title,
				Body:     body,
			}
			if err := app.Blog.CreatePost(context.Background(), p); err != nil {
				return err
			}
			fmt.Printf("Created draft %q (%s). Publish it with: tinywins blog publish %s\n", p.Title, p.ID, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author user ID")
	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&body, "body", "", "Post body")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newBlogListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := app.Blog.ListPosts(context.Background(), domain.PostStatus(strings.ToUpper(status)))
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				fmt.Println("No posts.")
				return nil
			}
			rows := make([][]string, 0, len(posts))
			for _, p := range posts {
				flagged := ""
				if p.Flagged {
					flagged = "!"
				}
				rows = append(rows, []string{
					p.ID,
					p.Title,
					string(p.Status),
					flagged,
					p.CreatedAt.Format("2006-01-02"),
				})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "TITLE", "STATUS", "FLAG", "CREATED"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: draft, published, flagged")

	return cmd
}

func newBlogPublishCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <post-id>",
		Short: "Publish a draft post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Blog.Publish(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Post published.")
			return nil
		},
	}

	return cmd
}

func newBlogFlagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag <post-id>",
		Short: "Flag a post for moderation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Blog.Flag(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Post flagged.")
			return nil
		},
	}

	return cmd
}

func newBlogRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <post-id>",
		Short: "Soft-delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Blog.SoftDelete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Post removed.")
			return nil
		},
	}

	return cmd
}

func newBlogCommentCmd(app *App) *cobra.Command {
	var author, body, replyTo string

	cmd := &cobra.Command{
		Use:   "comment <post-id>",
		Short: "Comment on a published post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.BlogComment{
				PostID:          args[0],
				ParentCommentID: replyTo,
				AuthorID:        author,
				Body:            body,
			}
			if err := app.Blog.Comment(context.Background(), c); err != nil {
				return err
			}
			fmt.Printf("Comment %s added.\n", c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author user ID")
	cmd.Flags().StringVar(&body, "body", "", "Comment body")
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "Top-level comment ID to reply to")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newBlogThreadsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads <post-id>",
		Short: "Show a post's comments grouped into threads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := app.Blog.Threads(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(threads) == 0 {
				fmt.Println("No comments.")
				return nil
			}
			for _, t := range threads {
				fmt.Printf("%s %s\n", formatter.Bold(t.Comment.AuthorID), formatter.Dim(t.Comment.CreatedAt.Format("2006-01-02 15:04")))
				fmt.Println("  " + t.Comment.Body)
				for _, r := range t.Replies {
					fmt.Printf("    %s %s\n", formatter.Bold(r.AuthorID), formatter.Dim(r.CreatedAt.Format("2006-01-02 15:04")))
					fmt.Println("      " + r.Body)
				}
				fmt.Println()
			}
			return nil
		},
	}

	return cmd
}
