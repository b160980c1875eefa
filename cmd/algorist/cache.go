package main

import (
	"fmt"
	"os"

	"github.com/aretw0/algorist/pkg/adapters/redis"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the shared geometry cache",
	Long:  `List or purge the meshes stored in the Redis geometry cache named by --redis.`,
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached shape keys",
	Run: func(cmd *cobra.Command, args []string) {
		cache := getCache(cmd)
		defer cache.Close()

		keys, err := cache.Keys(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing cache: %v\n", err)
			os.Exit(1)
		}

		if len(keys) == 0 {
			fmt.Println("Cache is empty.")
			return
		}

		fmt.Println("Cached geometry:")
		for _, k := range keys {
			fmt.Println("- " + k)
		}
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every cached mesh",
	Run: func(cmd *cobra.Command, args []string) {
		cache := getCache(cmd)
		defer cache.Close()

		if err := cache.Purge(cmd.Context()); err != nil {
			fmt.Printf("Error purging cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Cache purged.")
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}

func getCache(cmd *cobra.Command) *redis.Cache {
	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		fmt.Println("Error: --redis is required")
		os.Exit(1)
	}
	return redis.New(addr, os.Getenv("ALGORIST_REDIS_PASSWORD"), 0)
}
