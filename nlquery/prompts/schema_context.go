package prompts

// SchemaContext describes the FAOSTAT schema for the LLM
const SchemaContext = `Database Schema:

1. Tables and Their Relationships:
   - datasets
     * Primary Key: dataset_code (varchar(10), e.g. "QCL", "FBS")
     * Columns:
       - dataset_name: Full dataset name (text)
       - topic: Dataset topic (text)
       - description: Dataset description (text)
       - date_update: Last update timestamp
     * Referenced by:
       - items.dataset_code, elements.dataset_code, faostat_data.dataset_code

   - areas (countries and regions)
     * Primary Key: area_code (integer)
     * Columns:
       - m49_code: UN M49 standard code (varchar(10))
       - area_name: Country or region name (text), e.g. 'United States of America'

   - items (agricultural commodities)
     * Primary Key: item_code (integer)
     * Columns:
       - cpc_code: CPC classification code (varchar(20))
       - item_name: Commodity name (text), e.g. 'Wheat', 'Rice', 'Cattle'
       - dataset_code: Owning dataset

   - elements (measurement types)
     * Primary Key: element_code (integer)
     * Columns:
       - element_name: Measurement name (text), e.g. 'Production', 'Yield', 'Area harvested'
       - dataset_code: Owning dataset

   - flags (data quality markers)
     * Primary Key: flag_code (varchar(10))
     * Columns:
       - flag_description: Meaning of the flag (text)

   - faostat_data (fact table, one row per observation)
     * Primary Key: id (bigserial)
     * Foreign Keys (best-effort, not enforced):
       - dataset_code -> datasets.dataset_code
       - area_code -> areas.area_code
       - item_code -> items.item_code
       - element_code -> elements.element_code
     * Columns:
       - year (integer, required), year_code, month_code, month_name
       - value (numeric, nullable), unit, flag, note

   - faostat_data_view (PREFERRED for querying)
     * Denormalized view joining faostat_data with all dimension names:
       dataset_code, dataset_name, area_code, area_name, m49_code,
       item_code, item_name, element_code, element_name,
       year, month_name, value, unit, flag, note

2. Query Best Practices:
   - Query faostat_data_view instead of joining the base tables yourself
   - Aggregate with SUM(value) for production totals, AVG(value) for yields
   - Always filter on element_name when the question names a measurement
   - Handle NULL values: value IS NOT NULL where totals matter
   - Use ILIKE or LOWER() for name matching
   - Include year in the WHERE clause when the question mentions one`

// Documentation snippets that prime natural-language understanding
const Documentation = `Domain Notes:
- The faostat_data table contains agricultural statistics from FAO (Food and Agriculture Organization)
- The areas table contains countries and regions with standard M49 codes
- The items table contains agricultural commodities like wheat, rice, corn, livestock
- The elements table contains measurement types: Production (tonnes), Yield (kg/ha), Area Harvested (ha)
- Years range from approximately the 1960s to the 2020s depending on dataset and country
- Values are stored as numeric with units in a separate column
- Common units: tonnes, hectares (ha), kg/ha (yield), USD, percentage
- When asking about production, use element_name LIKE '%Production%'
- When asking about yields, use element_name LIKE '%Yield%'
- When asking about harvested area, use element_name LIKE '%Area%'
- Country names in area_name may be full official names (e.g. 'United States of America')
- Maize is the FAOSTAT name for corn
- The flag column indicates data quality (A=official, E=estimate, F=FAO estimate)`

// QueryExamples are question/SQL pairs used to prime the model
const QueryExamples = `Example Queries and Their SQL:

1. "What is the total wheat production in the United States in 2020?"
SQL:
SELECT area_name, item_name, element_name, year, SUM(value) AS total_production, unit
FROM faostat_data_view
WHERE area_name = 'United States of America'
  AND item_name LIKE '%Wheat%'
  AND year = 2020
  AND element_name LIKE '%Production%'
GROUP BY area_name, item_name, element_name, year, unit;

2. "Show me the top 10 countries by rice production in 2020"
SQL:
SELECT area_name, SUM(value) AS total_production, unit
FROM faostat_data_view
WHERE item_name LIKE '%Rice%'
  AND year = 2020
  AND element_name LIKE '%Production%'
GROUP BY area_name, unit
ORDER BY total_production DESC
LIMIT 10;

3. "What datasets are available?"
SQL:
SELECT dataset_code, dataset_name, description, date_update
FROM datasets
ORDER BY dataset_name;

4. "Show crop production trends for India from 2010 to 2020"
SQL:
SELECT year, item_name, SUM(value) AS production, unit
FROM faostat_data_view
WHERE area_name = 'India'
  AND year BETWEEN 2010 AND 2020
  AND element_name LIKE '%Production%'
GROUP BY year, item_name, unit
ORDER BY year, production DESC;

5. "Compare corn yields between USA and China in 2019"
SQL:
SELECT area_name, item_name, element_name, AVG(value) AS avg_yield, unit
FROM faostat_data_view
WHERE area_name IN ('United States of America', 'China')
  AND item_name LIKE '%Maize%'
  AND element_name LIKE '%Yield%'
  AND year = 2019
GROUP BY area_name, item_name, element_name, unit;

6. "What are the greenhouse gas emissions from agriculture in Brazil?"
SQL:
SELECT year, element_name, SUM(value) AS emissions, unit
FROM faostat_data_view
WHERE area_name = 'Brazil'
  AND dataset_name LIKE '%Emission%'
GROUP BY year, element_name, unit
ORDER BY year DESC;

7. "List all items (crops/commodities) available"
SQL:
SELECT DISTINCT item_name, COUNT(*) AS record_count
FROM faostat_data_view
WHERE item_name IS NOT NULL
GROUP BY item_name
ORDER BY item_name;

8. "Show food price indices over time"
SQL:
SELECT year, month_name, item_name, AVG(value) AS avg_index, unit
FROM faostat_data_view
WHERE dataset_name LIKE '%Price%'
GROUP BY year, month_name, item_name, unit
ORDER BY year, month_name;`
