package main

import (
	"os"

	"github.com/inkwell-next/internal/app"
	"github.com/inkwell-next/internal/config"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/provider"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "初始化角色、管理员与演示数据",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRolesCmd(), newAdminCmd(), newDemoCmd())
	return root
}

// setup 加载配置、连接数据库并构建依赖容器（内置角色随容器初始化）
func setup() (*provider.Container, error) {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if err := app.InitDatabase(cfg); err != nil {
		return nil, err
	}
	return provider.NewContainer(cfg), nil
}

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "写入内置角色 administrator 与 moderator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			roles, err := c.AuthzService.ListRoles()
			if err != nil {
				return err
			}
			for _, role := range roles {
				cmd.Println(role)
			}
			return nil
		},
	}
}

func newAdminCmd() *cobra.Command {
	var input config.BootstrapConfig
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "创建管理员账号（已存在时仅补齐 administrator 角色）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			user, err := c.BootstrapService.EnsureAdministrator(input)
			if err != nil {
				return err
			}
			cmd.Printf("administrator ready: id=%d email=%s\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.AdminEmail, "email", "", "管理员邮箱")
	cmd.Flags().StringVar(&input.AdminPassword, "password", "", "管理员密码（需满足密码策略）")
	cmd.Flags().StringVar(&input.AdminFirstName, "first-name", "Site", "名")
	cmd.Flags().StringVar(&input.AdminLastName, "last-name", "Administrator", "姓")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
