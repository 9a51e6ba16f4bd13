package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cloud-wave-best-zizon/storefront-service/pkg/client"
)

// SeedFile is the catalog file read by `storefrontctl seed`.
type SeedFile struct {
	Products []SeedProduct `yaml:"products"`
}

type SeedProduct struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Price         float64  `yaml:"price"`
	DiscountPrice float64  `yaml:"discountPrice,omitempty"`
	CountInStock  int      `yaml:"countInStock,omitempty"`
	SKU           string   `yaml:"sku"`
	Category      string   `yaml:"category"`
	Brand         string   `yaml:"brand,omitempty"`
	Sizes         []string `yaml:"sizes,omitempty"`
	Colors        []string `yaml:"colors,omitempty"`
	Collections   string   `yaml:"collections,omitempty"`
	Material      string   `yaml:"material,omitempty"`
	Gender        string   `yaml:"gender,omitempty"`
	Images        []string `yaml:"images,omitempty"`
	IsFeatured    bool     `yaml:"isFeatured,omitempty"`
	IsPublished   bool     `yaml:"isPublished,omitempty"`
	Rating        float64  `yaml:"rating,omitempty"`
	NumReviews    int      `yaml:"numReviews,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	Weight        float64  `yaml:"weight,omitempty"`
}

func (p SeedProduct) Request() client.CreateProductRequest {
	images := make([]client.ProductImage, 0, len(p.Images))
	for _, url := range p.Images {
		images = append(images, client.ProductImage{URL: url, AltText: p.Name})
	}
	return client.CreateProductRequest{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CountInStock:  p.CountInStock,
		SKU:           p.SKU,
		Category:      p.Category,
		Brand:         p.Brand,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		Collections:   p.Collections,
		Material:      p.Material,
		Gender:        p.Gender,
		Images:        images,
		IsFeatured:    p.IsFeatured,
		IsPublished:   p.IsPublished,
		Rating:        p.Rating,
		NumReviews:    p.NumReviews,
		Tags:          p.Tags,
		Weight:        p.Weight,
	}
}

// LoadSeedFile parses a catalog file, rejecting unknown fields.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*SeedFile, error) {
	var seed SeedFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i, p := range seed.Products {
		if p.Name == "" || p.SKU == "" || p.Category == "" {
			return nil, fmt.Errorf("product %d: name, sku and category are required", i)
		}
	}
	return &seed, nil
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Create every product listed in a YAML catalog file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Token == "" {
				return errNoToken
			}
			seed, err := LoadSeedFile(file)
			if err != nil {
				return err
			}

			c := rootOpts.Client()
			var (
				created []string
				errs    []error
			)
			for _, p := range seed.Products {
				product, err := c.CreateProduct(cmd.Context(), rootOpts.Session(), p.Request())
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", p.SKU, err))
					continue
				}
				created = append(created, product.ID)
			}

			if err := formatter(rootOpts, cmd).Success(map[string]any{"created": created}, func(w io.Writer) {
				fmt.Fprintf(w, "created %d of %d products\n", len(created), len(seed.Products))
			}); err != nil {
				return err
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
