package shopify

// VariantsByProductIDsQuery fetches the variants of a set of products with the
// dimension and shipping metafields the matcher needs
const VariantsByProductIDsQuery = `
query getCatalogVariants($ids: [ID!]!, $namespace: String!) {
  nodes(ids: $ids) {
    ... on Product {
      id
      title
      variants(first: 250) {
        edges {
          node {
            id
            sku
            price
            length: metafield(namespace: $namespace, key: "length") { value }
            height: metafield(namespace: $namespace, key: "height") { value }
            timeToShip: metafield(namespace: $namespace, key: "time_to_ship") { value }
            totalPackageLength: metafield(namespace: $namespace, key: "total_package_length") { value }
            packageWidth: metafield(namespace: $namespace, key: "package_width") { value }
            packageHeight: metafield(namespace: $namespace, key: "package_height") { value }
            skuBase: metafield(namespace: $namespace, key: "sku_base") { value }
          }
        }
      }
    }
  }
}
`

// FamilyProductsQuery pages through the blind products with their size bounds
const FamilyProductsQuery = `
query getFamilyProducts($first: Int!, $after: String, $query: String, $namespace: String!) {
  products(first: $first, after: $after, query: $query) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        productType
        idProductsAll: metafield(namespace: $namespace, key: "id_products_all") { value }
        idPrincipal: metafield(namespace: $namespace, key: "id_persiana_principal") { value }
        idSecundaria: metafield(namespace: $namespace, key: "id_persiana_secundaria") { value }
        larguraMinima: metafield(namespace: $namespace, key: "largura_minima") { value }
        larguraMaxima: metafield(namespace: $namespace, key: "largura_maxima") { value }
        alturaMinima: metafield(namespace: $namespace, key: "altura_minima") { value }
        alturaMaxima: metafield(namespace: $namespace, key: "altura_maxima") { value }
        movementControl: metafield(namespace: $namespace, key: "movement_control") { value }
      }
    }
  }
}
`
