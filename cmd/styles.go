package cmd

import (
	"fmt"
	"strconv"

	"github.com/kayz/promptsmith/internal/app"
	"github.com/kayz/promptsmith/internal/styles"
	"github.com/spf13/cobra"
)

var (
	stylesSearchCategories []string
	stylesLimit            int
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "Browse the style catalog",
	Long: `Browse the style catalog.

Each *.txt file in the styles folder is one category; every non-empty line is
a style. Favorites and usage counts are kept in _metadata.json next to them.`,
	RunE: runStylesCategories,
}

var stylesCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	RunE:  runStylesCategories,
}

var stylesListCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "List the styles of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(c *styles.Catalog) error {
			list := c.Styles(args[0])
			if len(list) == 0 {
				printEmpty("styles in " + args[0])
				return nil
			}
			table := newTable("#", "Style", "★", "Uses")
			for i, name := range list {
				e := c.Entry(args[0], name)
				table.Append([]string{strconv.Itoa(i + 1), e.Name, star(e.Favorite), strconv.Itoa(e.UsageCount)})
			}
			table.Render()
			return nil
		})
	},
}

var stylesSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search styles; exact matches first, then shorter ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(c *styles.Catalog) error {
			results := c.Search(args[0], stylesSearchCategories...)
			if len(results) == 0 {
				printEmpty("matching styles")
				if hints := c.Suggest(args[0], 5); len(hints) > 0 {
					fmt.Println()
					heading("Did you mean")
					printStyleList(c, hints)
				}
				return nil
			}
			if stylesLimit > 0 && len(results) > stylesLimit {
				results = results[:stylesLimit]
			}
			printStyleList(c, results)
			return nil
		})
	},
}

var stylesSuggestCmd = &cobra.Command{
	Use:   "suggest <term>",
	Short: "Fuzzy-match styles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(c *styles.Catalog) error {
			hints := c.Suggest(args[0], stylesLimit)
			if len(hints) == 0 {
				printEmpty("suggestions")
				return nil
			}
			printStyleList(c, hints)
			return nil
		})
	},
}

var stylesFavoriteCmd = &cobra.Command{
	Use:   "favorite <style>",
	Short: "Toggle a style's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(c *styles.Catalog) error {
			on, err := c.ToggleFavorite(args[0])
			if err != nil {
				warnf("favorite not saved: %v", err)
			}
			if on {
				successf("%s added to favorites", args[0])
			} else {
				successf("%s removed from favorites", args[0])
			}
			return nil
		})
	},
}

var stylesFavoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List favorite styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(c *styles.Catalog) error {
			favs := c.Favorites()
			if len(favs) == 0 {
				printEmpty("favorites")
				return nil
			}
			printStyleList(c, favs)
			return nil
		})
	},
}

var stylesPopularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most used styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(c *styles.Catalog) error {
			top := c.MostUsed(stylesLimit)
			if len(top) == 0 {
				printEmpty("style usage recorded yet")
				return nil
			}
			printStyleList(c, top)
			return nil
		})
	},
}

var stylesRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random style",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(c *styles.Catalog) error {
			category, style, ok := c.Random(nil)
			if !ok {
				printEmpty("styles")
				return nil
			}
			fmt.Printf("%s (%s)\n", style, category)
			return nil
		})
	},
}

func runStylesCategories(cmd *cobra.Command, args []string) error {
	return withCatalog(func(c *styles.Catalog) error {
		categories := c.Categories()
		if len(categories) == 0 {
			printEmpty("categories in " + c.Dir())
			return nil
		}
		table := newTable("Category", "Styles")
		for _, category := range categories {
			table.Append([]string{category, strconv.Itoa(len(c.Styles(category)))})
		}
		table.Render()
		return nil
	})
}

func printStyleList(c *styles.Catalog, names []string) {
	table := newTable("#", "Style", "★", "Uses")
	for i, name := range names {
		table.Append([]string{strconv.Itoa(i + 1), name, star(c.IsFavorite(name)), strconv.Itoa(c.UsageCount(name))})
	}
	table.Render()
}

func withCatalog(fn func(c *styles.Catalog) error) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Do(func(c app.Components) error { return fn(c.Catalog) })
}

func init() {
	stylesSearchCmd.Flags().StringSliceVarP(&stylesSearchCategories, "category", "c", nil, "Limit the search to these categories")
	stylesCmd.PersistentFlags().IntVarP(&stylesLimit, "limit", "n", 10, "Maximum number of results (0 for all)")

	stylesCmd.AddCommand(stylesCategoriesCmd)
	stylesCmd.AddCommand(stylesListCmd)
	stylesCmd.AddCommand(stylesSearchCmd)
	stylesCmd.AddCommand(stylesSuggestCmd)
	stylesCmd.AddCommand(stylesFavoriteCmd)
	stylesCmd.AddCommand(stylesFavoritesCmd)
	stylesCmd.AddCommand(stylesPopularCmd)
	stylesCmd.AddCommand(stylesRandomCmd)
	rootCmd.AddCommand(stylesCmd)
}
