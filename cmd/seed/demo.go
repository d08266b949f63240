package main

import (
	"context"
	"errors"

	"github.com/inkwell-next/internal/config"
	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/provider"
	"github.com/inkwell-next/internal/service"

	"github.com/spf13/cobra"
)

type demoPost struct {
	title       string
	abstract    string
	content     string
	readyStatus string
	tags        []string
}

var demoPosts = []demoPost{
	{
		title:       "Hello, Inkwell",
		abstract:    "A first post to check that everything is wired up.",
		content:     "Welcome to the demo blog. Comments are held for moderation before they appear.",
		readyStatus: constants.ReadyStatusProductionReady,
		tags:        []string{"Meta", "Welcome"},
	},
	{
		title:       "Writing Go Services",
		abstract:    "Notes on layering handlers, services and repositories.",
		content:     "Keep handlers thin, put rules in services and let repositories own SQL.",
		readyStatus: constants.ReadyStatusProductionReady,
		tags:        []string{"Go", "Architecture"},
	},
	{
		title:       "Draft: Upcoming Features",
		abstract:    "Only administrators can read this one.",
		content:     "Search improvements and RSS are on the list.",
		readyStatus: constants.ReadyStatusPreProduction,
		tags:        []string{"Meta"},
	},
}

func newDemoCmd() *cobra.Command {
	var adminEmail string
	var adminPassword string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "创建演示博客、文章与一条待审核评论",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			bootstrap := c.Config.Bootstrap
			if adminEmail != "" {
				bootstrap.AdminEmail = adminEmail
			}
			if adminPassword != "" {
				bootstrap.AdminPassword = adminPassword
			}
			blog, err := seedDemo(cmd.Context(), c, bootstrap)
			if err != nil {
				return err
			}
			cmd.Printf("demo blog ready: id=%d name=%s\n", blog.ID, blog.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "演示数据作者邮箱（默认取 bootstrap.admin_email）")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "作者不存在时使用的密码")
	return cmd
}

func seedDemo(ctx context.Context, c *provider.Container, bootstrap config.BootstrapConfig) (*models.Blog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	admin, err := c.BootstrapService.EnsureAdministrator(bootstrap)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, errors.New("admin email is required (bootstrap.admin_email or --admin-email)")
	}
	actor, err := c.UserRoleService.ActorFor(admin.ID, "seed-demo")
	if err != nil {
		return nil, err
	}

	blog, err := ensureDemoBlog(c, admin.ID)
	if err != nil {
		return nil, err
	}

	var firstPost *models.Post
	for _, item := range demoPosts {
		post, err := c.PostService.Create(ctx, actor, service.PostInput{
			BlogID:      blog.ID,
			Title:       item.title,
			Abstract:    item.abstract,
			Content:     item.content,
			ReadyStatus: item.readyStatus,
			Tags:        item.tags,
		})
		if err != nil {
			if fieldErrs, ok := service.AsValidationError(err); ok && fieldErrs.Has("title", "slug_duplicate") {
				logger.Infow("seed_demo_post_exists", "title", item.title)
				continue
			}
			return nil, err
		}
		if firstPost == nil {
			firstPost = post
		}
	}

	if firstPost != nil {
		if _, err := c.CommentService.Create(ctx, actor, service.CreateCommentInput{
			PostID: firstPost.ID,
			Body:   "Looking forward to more posts!",
		}); err != nil {
			return nil, err
		}
	}
	return blog, nil
}

func ensureDemoBlog(c *provider.Container, authorID uint) (*models.Blog, error) {
	blogs, err := c.BlogService.ListByAuthor(authorID)
	if err != nil {
		return nil, err
	}
	for i := range blogs {
		if blogs[i].Name == "Inkwell Demo" {
			return &blogs[i], nil
		}
	}
	return c.BlogService.Create(service.CreateBlogInput{
		AuthorID:    authorID,
		Name:        "Inkwell Demo",
		Description: "Sample content created by the seed command.",
	})
}
