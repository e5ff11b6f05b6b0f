package catalog

// Entry is one row of an ordered keyword table. Position inside Values is the
// priority (lower index = higher priority).
type Entry struct {
	Key    string
	Values []string
}

// GeneralMedicine is re-marked right after an exhaustion reset so the
// recommender does not open the next round with it again.
const GeneralMedicine = "General Medicine"

// GenericSpecialties is used when no condition matches ConditionSpecialties.
// Names missing from the loaded catalog are skipped.
var GenericSpecialties = []string{
	"General Medicine",
	"Internal Medicine",
	"Family Medicine",
	"Preventive Medicine",
	"Integrative Medicine",
	"General Practice",
}

// ConditionSpecialties maps a condition keyword to ordered specialties.
var ConditionSpecialties = []Entry{
	// generic conditions produced by the fallback paths
	{"possible condition", []string{"General Medicine", "Internal Medicine", "Family Medicine"}},
	{"possible mild condition", []string{"General Medicine", "Family Medicine", "Preventive Medicine"}},
	{"temporary condition", []string{"General Medicine", "Family Medicine", "Internal Medicine"}},
	{"possible temporary condition", []string{"General Medicine", "Family Medicine", "Preventive Medicine"}},
	{"stress", []string{"Psychology", "Psychiatry", "General Medicine"}},
	{"stress reaction", []string{"Psychology", "Psychiatry", "General Medicine"}},
	{"mild condition", []string{"General Medicine", "Family Medicine", "Preventive Medicine"}},

	{"flu", []string{"General Medicine", "Pulmonology", "Infectious Diseases"}},
	{"cold", []string{"General Medicine", "Pulmonology", "Otolaryngology"}},
	{"covid-19", []string{"Pulmonology", "General Medicine", "Infectious Diseases"}},
	{"hypertension", []string{"Cardiology", "General Medicine", "Nephrology"}},
	{"diabetes", []string{"Endocrinology", "General Medicine", "Nutrition"}},
	{"anxiety", []string{"Psychiatry", "Psychology", "Neurology"}},
	{"depression", []string{"Psychiatry", "Psychology", "Neurology"}},
	{"arthritis", []string{"Rheumatology", "General Medicine", "Traumatology"}},
	{"allergy", []string{"Allergology", "Dermatology", "Pulmonology"}},
	{"migraine", []string{"Neurology", "General Medicine", "Pain Medicine"}},
	{"chest pain", []string{"Cardiology", "General Medicine", "Pulmonology"}},
	{"angina", []string{"Cardiology", "General Medicine", "Emergency Medicine"}},
	{"heart attack", []string{"Cardiology", "Emergency Medicine", "Intensive Care"}},
	{"reflux", []string{"Gastroenterology", "General Medicine", "Otolaryngology"}},
	{"bronchitis", []string{"Pulmonology", "General Medicine", "Allergology"}},
	{"asthma", []string{"Pulmonology", "Allergology", "General Medicine"}},
	{"vertigo", []string{"Otolaryngology", "Neurology", "General Medicine"}},
	{"gastritis", []string{"Gastroenterology", "General Medicine", "Internal Medicine"}},
	{"appendicitis", []string{"General Surgery", "Emergency Medicine", "General Medicine"}},
}

// DefaultConditions is returned by condition matching when no symptom matched.
var DefaultConditions = []string{"Possible mild condition", "Temporary condition", "Stress reaction"}

// FallbackConditions is the last resort after the small fallback table misses.
var FallbackConditions = []string{"Possible temporary condition", "Stress", "Mild condition"}

// FallbackSymptomConditions is consulted when condition matching produced
// nothing usable. Matching is one-directional: the key must occur in the symptom.
var FallbackSymptomConditions = []Entry{
	{"headache", []string{"Migraine", "Tension headache", "Sinusitis"}},
	{"pain", []string{"Muscle inflammation", "Arthritis", "Fibromyalgia"}},
	{"chest", []string{"Angina", "Bronchitis", "Anxiety"}},
	{"fever", []string{"Flu", "Viral infection", "COVID-19"}},
	{"cough", []string{"Common cold", "Bronchitis", "Asthma"}},
	{"dizz", []string{"Vertigo", "Hypotension", "Anemia"}},
	{"nausea", []string{"Gastroenteritis", "Migraine", "Food poisoning"}},
	{"tired", []string{"Anemia", "Hypothyroidism", "Depression"}},
	{"abdominal", []string{"Gastritis", "Irritable bowel syndrome", "Indigestion"}},
}

// CommonSymptomWords drives the keyword scan used when extraction yields
// nothing. Entries are stems; the scan extends them to the full word.
var CommonSymptomWords = []string{
	"pain", "fever", "cough", "dizz", "nause", "fatigue",
	"tired", "itch", "vomit", "diarrh", "headache",
}

// SymptomConditions maps a symptom keyword to ordered candidate conditions.
var SymptomConditions = []Entry{
	// general
	{"fever", []string{"Flu", "Viral infection", "COVID-19", "Bacterial infection", "Pneumonia"}},
	{"chills", []string{"Flu", "Infection", "Malaria", "Sepsis", "Pneumonia"}},
	{"fatigue", []string{"Anemia", "Hypothyroidism", "Depression", "Mononucleosis", "Sleep apnea"}},
	{"tiredness", []string{"Anemia", "Hypothyroidism", "Depression", "Vitamin deficiency", "Heart disease"}},
	{"weakness", []string{"Anemia", "Hypoglycemia", "Myasthenia gravis", "Parkinson's disease", "Multiple sclerosis"}},
	{"weight loss", []string{"Hyperthyroidism", "Diabetes", "Cancer", "Inflammatory bowel disease", "Depression"}},
	{"weight gain", []string{"Hypothyroidism", "Cushing's syndrome", "Medication side effect", "Fluid retention", "Obesity"}},
	{"night sweats", []string{"Tuberculosis", "Lymphoma", "Infection", "Menopause", "Sleep apnea"}},
	{"malaise", []string{"Viral infection", "Flu", "Drug reaction", "Stress", "Chronic fatigue"}},

	// respiratory
	{"cough", []string{"Common cold", "Bronchitis", "Asthma", "Pneumonia", "COVID-19"}},
	{"dry cough", []string{"COVID-19", "Asthma", "Allergies", "Gastroesophageal reflux", "Viral infection"}},
	{"cough with phlegm", []string{"Bronchitis", "Pneumonia", "COPD", "Sinus infection", "Tuberculosis"}},
	{"coughing blood", []string{"Tuberculosis", "Pneumonia", "Lung cancer", "Pulmonary embolism", "Bronchiectasis"}},
	{"shortness of breath", []string{"Asthma", "Pneumonia", "Heart failure", "COPD", "Anxiety"}},
	{"difficulty breathing", []string{"Asthma", "Pneumonia", "Heart failure", "COPD", "Anxiety"}},
	{"rapid breathing", []string{"Asthma", "Pneumonia", "Anxiety", "Metabolic acidosis", "Pulmonary embolism"}},
	{"painful breathing", []string{"Pneumonia", "Pleurisy", "Costochondritis", "Pulmonary embolism", "Pneumothorax"}},
	{"nasal congestion", []string{"Common cold", "Sinusitis", "Allergic rhinitis", "Nasal polyps", "Deviated septum"}},
	{"runny nose", []string{"Common cold", "Allergic rhinitis", "Sinusitis", "Temperature changes", "Irritant exposure"}},
	{"sneezing", []string{"Allergy", "Common cold", "Rhinitis", "Environmental irritants", "Viral infection"}},
	{"sore throat", []string{"Pharyngitis", "Common cold", "Tonsillitis", "Laryngitis", "Gastroesophageal reflux"}},
	{"hoarseness", []string{"Laryngitis", "Vocal nodules", "Laryngeal cancer", "Reflux", "Hypothyroidism"}},
	{"wheezing", []string{"Asthma", "Bronchitis", "COPD", "Allergic reaction", "Heart failure"}},

	// cardiac
	{"chest pain", []string{"Angina", "Heart attack", "Anxiety", "Costochondritis", "Gastroesophageal reflux"}},
	{"palpitations", []string{"Cardiac arrhythmia", "Anxiety", "Hyperthyroidism", "Anemia", "Caffeine effects"}},
	{"irregular heartbeat", []string{"Atrial fibrillation", "Atrial flutter", "Extrasystoles", "Heart valve disease", "Cardiomyopathy"}},
	{"high blood pressure", []string{"Essential hypertension", "Kidney disease", "Sleep apnea", "Cushing's syndrome", "Pheochromocytoma"}},
	{"low blood pressure", []string{"Dehydration", "Bleeding", "Sepsis", "Medication effects", "Adrenal insufficiency"}},
	{"fainting", []string{"Vasovagal syncope", "Orthostatic hypotension", "Cardiac arrhythmia", "Hypoglycemia", "Anemia"}},
	{"swollen legs", []string{"Heart failure", "Venous insufficiency", "Deep vein thrombosis", "Kidney failure", "Cirrhosis"}},

	// digestive
	{"abdominal pain", []string{"Gastritis", "Appendicitis", "Biliary colic", "Pancreatitis", "Inflammatory bowel disease"}},
	{"stomach ache", []string{"Gastritis", "Peptic ulcer", "Gastroesophageal reflux", "Functional dyspepsia", "Gastric cancer"}},
	{"stomach pain", []string{"Gastritis", "Peptic ulcer", "Gastroesophageal reflux", "Functional dyspepsia", "Gastric cancer"}},
	{"nausea", []string{"Gastroenteritis", "Migraine", "Pregnancy", "Food poisoning", "Medication side effects"}},
	{"vomiting", []string{"Gastroenteritis", "Food poisoning", "Bowel obstruction", "Migraine", "Appendicitis"}},
	{"diarrhea", []string{"Gastroenteritis", "Food poisoning", "Irritable bowel syndrome", "Crohn's disease", "Ulcerative colitis"}},
	{"constipation", []string{"Low-fiber diet", "Dehydration", "Irritable bowel syndrome", "Hypothyroidism", "Medication side effects"}},
	{"black stools", []string{"Upper gastrointestinal bleeding", "Oral iron use", "Bismuth", "Colorectal cancer", "Peptic ulcer"}},
	{"blood in stool", []string{"Hemorrhoids", "Anal fissure", "Inflammatory bowel disease", "Colorectal polyps", "Colorectal cancer"}},
	{"heartburn", []string{"Gastroesophageal reflux", "Hiatal hernia", "Gastritis", "Peptic ulcer", "Pregnancy"}},
	{"bloating", []string{"Irritable bowel syndrome", "Lactose intolerance", "Celiac disease", "Ascites", "Bowel obstruction"}},
	{"jaundice", []string{"Hepatitis", "Cirrhosis", "Biliary obstruction", "Hemolytic anemia", "Pancreatic cancer"}},
	{"difficulty swallowing", []string{"Gastroesophageal reflux disease", "Achalasia", "Esophageal cancer", "Anxiety", "Amyotrophic lateral sclerosis"}},

	// neurological
	{"headache", []string{"Migraine", "Tension headache", "Sinusitis", "Hypertension", "Brain tumor"}},
	{"migraine", []string{"Migraine", "Tension headache", "Cluster headache", "Meningitis", "Brain aneurysm"}},
	{"dizziness", []string{"Vertigo", "Hypotension", "Anemia", "Dehydration", "Anxiety"}},
	{"vertigo", []string{"Benign paroxysmal positional vertigo", "Meniere's disease", "Vestibular neuritis", "Labyrinthitis", "Brain tumor"}},
	{"numbness", []string{"Peripheral neuropathy", "Nerve compression", "Multiple sclerosis", "Stroke", "Diabetes"}},
	{"tingling", []string{"Peripheral neuropathy", "Vitamin B12 deficiency", "Carpal tunnel syndrome", "Multiple sclerosis", "Migraine with aura"}},
	{"muscle weakness", []string{"Multiple sclerosis", "Myasthenia gravis", "Polymyositis", "Parkinson's disease", "Amyotrophic lateral sclerosis"}},
	{"tremors", []string{"Parkinson's disease", "Essential tremor", "Medication side effects", "Alcohol withdrawal", "Hyperthyroidism"}},
	{"confusion", []string{"Delirium", "Dementia", "Infection", "Medication side effects", "Metabolic encephalopathy"}},
	{"memory problems", []string{"Alzheimer's disease", "Vascular dementia", "Depression", "Hypothyroidism", "Vitamin B12 deficiency"}},
	{"seizures", []string{"Epilepsy", "Alcohol withdrawal", "Hypoglycemia", "High fever", "Brain tumor"}},
	{"difficulty speaking", []string{"Stroke", "Amyotrophic lateral sclerosis", "Parkinson's disease", "Dystonia", "Anxiety"}},
	{"facial paralysis", []string{"Bell's palsy", "Stroke", "Guillain-Barre syndrome", "Lyme disease", "Brain tumor"}},

	// musculoskeletal
	{"joint pain", []string{"Arthritis", "Osteoarthritis", "Gout", "Lupus", "Lyme disease"}},
	{"muscle pain", []string{"Fibromyalgia", "Polymyalgia rheumatica", "Rhabdomyolysis", "Viral infection", "Statin side effects"}},
	{"back pain", []string{"Herniated disc", "Spinal stenosis", "Osteoarthritis", "Fibromyalgia", "Kidney disease"}},
	{"lower back pain", []string{"Muscle strain", "Herniated disc", "Spinal stenosis", "Degenerative disc disease", "Spondylolisthesis"}},
	{"joint stiffness", []string{"Rheumatoid arthritis", "Osteoarthritis", "Fibromyalgia", "Lupus", "Polymyalgia rheumatica"}},
	{"swollen joints", []string{"Arthritis", "Gout", "Bursitis", "Lupus", "Traumatic injury"}},
	{"neck pain", []string{"Muscle strain", "Cervical disc herniation", "Cervical spondylosis", "Fibromyalgia", "Meningitis"}},
	{"limb pain", []string{"Peripheral neuropathy", "Peripheral artery disease", "Deep vein thrombosis", "Fibromyalgia", "Polymyositis"}},

	// skin
	{"rash", []string{"Dermatitis", "Hives", "Psoriasis", "Fungal infection", "Allergic reaction"}},
	{"itching", []string{"Dermatitis", "Hives", "Psoriasis", "Scabies", "Allergic reaction"}},
	{"skin redness", []string{"Dermatitis", "Rosacea", "Sunburn", "Cellulitis", "Lupus"}},
	{"blisters", []string{"Herpes", "Impetigo", "Burns", "Contact dermatitis", "Drug reactions"}},
	{"mole changes", []string{"Melanoma", "Basal cell carcinoma", "Squamous cell carcinoma", "Seborrheic keratosis", "Dysplastic nevus"}},
	{"hives", []string{"Food allergy", "Drug allergy", "Infection", "Stress", "Heat or cold exposure"}},
	{"dry skin", []string{"Atopic dermatitis", "Psoriasis", "Hypothyroidism", "Dehydration", "Nutritional deficiency"}},
	{"excessive sweating", []string{"Hyperthyroidism", "Anxiety", "Infection", "Obesity", "Medications"}},

	// eyes
	{"blurred vision", []string{"Refractive error", "Cataracts", "Glaucoma", "Diabetic retinopathy", "Macular degeneration"}},
	{"red eyes", []string{"Conjunctivitis", "Uveitis", "Glaucoma", "Dry eye", "Blepharitis"}},
	{"eye pain", []string{"Glaucoma", "Uveitis", "Sinusitis", "Migraine", "Conjunctivitis"}},
	{"sensitivity to light", []string{"Migraine", "Meningitis", "Uveitis", "Corneal burn", "Dry eye"}},
	{"double vision", []string{"Myasthenia gravis", "Multiple sclerosis", "Stroke", "Head trauma", "Aneurysm"}},
	{"vision loss", []string{"Glaucoma", "Stroke", "Retinal detachment", "Optic neuritis", "Retinal artery occlusion"}},
	{"dry eyes", []string{"Dry eye syndrome", "Sjogren's syndrome", "Blepharitis", "Vitamin A deficiency", "Medication side effects"}},
	{"night blindness", []string{"Vitamin A deficiency", "Retinitis pigmentosa", "Macular degeneration", "Cataracts", "Glaucoma"}},

	// ears
	{"hearing loss", []string{"Presbycusis", "Otosclerosis", "Meniere's disease", "Acoustic trauma", "Ear infection"}},
	{"tinnitus", []string{"Noise-induced hearing loss", "Meniere's disease", "Otosclerosis", "Medication side effects", "Acoustic neuroma"}},
	{"ear pain", []string{"Otitis media", "Otitis externa", "Ear infection", "Temporomandibular joint disorder", "Dental abscess"}},
	{"ear discharge", []string{"Otitis media", "Otitis externa", "Perforated eardrum", "Cholesteatoma", "Trauma"}},
	{"blocked ear", []string{"Eustachian tube dysfunction", "Earwax impaction", "Otitis media", "Barotrauma", "Otosclerosis"}},

	// urinary
	{"painful urination", []string{"Urinary tract infection", "Urethritis", "Prostatitis", "Kidney stones", "Interstitial cystitis"}},
	{"frequent urination", []string{"Urinary tract infection", "Diabetes", "Benign prostatic hyperplasia", "Pregnancy", "Overactive bladder"}},
	{"urgent urination", []string{"Urinary tract infection", "Overactive bladder", "Interstitial cystitis", "Prostatic hyperplasia", "Bladder cancer"}},
	{"blood in urine", []string{"Urinary tract infection", "Kidney stones", "Cystitis", "Bladder cancer", "Glomerulonephritis"}},
	{"urinary incontinence", []string{"Benign prostatic hyperplasia", "Overactive bladder", "Pelvic prolapse", "Medication side effects", "Multiple sclerosis"}},
	{"weak urine stream", []string{"Benign prostatic hyperplasia", "Urethral stricture", "Prostate cancer", "Neurogenic bladder", "Urinary tract infection"}},
	{"dark urine", []string{"Dehydration", "Hepatitis", "Rhabdomyolysis", "Hemolytic anemia", "Porphyria"}},

	// mental health
	{"anxiety", []string{"Generalized anxiety disorder", "Panic disorder", "Social phobia", "Post-traumatic stress", "Hyperthyroidism"}},
	{"depression", []string{"Major depressive disorder", "Bipolar disorder", "Dysthymia", "Hypothyroidism", "Seasonal affective disorder"}},
	{"insomnia", []string{"Anxiety", "Depression", "Sleep apnea", "Restless legs syndrome", "Medication side effects"}},
	{"mood swings", []string{"Bipolar disorder", "Premenstrual disorder", "Depression", "Menopause", "Borderline personality disorder"}},
	{"irritability", []string{"Anxiety", "Depression", "Bipolar disorder", "Hyperthyroidism", "Premenstrual syndrome"}},
	{"suicidal thoughts", []string{"Major depression", "Bipolar disorder", "Schizophrenia", "Post-traumatic stress disorder", "Borderline personality disorder"}},
	{"hallucinations", []string{"Schizophrenia", "Bipolar disorder", "Dementia", "Drug intoxication", "Delirium"}},
	{"paranoia", []string{"Schizophrenia", "Delusional disorder", "Dementia", "Drug intoxication", "Paranoid personality disorder"}},
	{"panic attacks", []string{"Panic disorder", "Specific phobia", "Social anxiety disorder", "Hyperthyroidism", "Mitral valve prolapse"}},

	// endocrine
	{"excessive thirst", []string{"Diabetes mellitus", "Diabetes insipidus", "Hyperthyroidism", "Dehydration", "Medications"}},
	{"excessive hunger", []string{"Diabetes mellitus", "Hyperthyroidism", "Hypoglycemia", "Medications", "Bulimia nervosa"}},
	{"heat intolerance", []string{"Hyperthyroidism", "Menopause", "Medications", "Hypothalamic lesion", "Pheochromocytoma"}},
	{"cold intolerance", []string{"Hypothyroidism", "Anemia", "Raynaud's disease", "Malnutrition", "Low body fat"}},
	{"hair growth changes", []string{"Hirsutism", "Polycystic ovary syndrome", "Congenital adrenal hyperplasia", "Androgen-producing tumors", "Medications"}},

	// reproductive
	{"erectile dysfunction", []string{"Cardiovascular disease", "Diabetes", "Hypertension", "Depression", "Medication side effects"}},
	{"low libido", []string{"Depression", "Low testosterone", "Stress", "Medication side effects", "Relationship problems"}},
	{"painful intercourse", []string{"Vaginismus", "Endometriosis", "Vaginal infection", "Vaginal dryness", "Prostatitis"}},
	{"abnormal vaginal bleeding", []string{"Uterine polyps", "Fibroids", "Endometrial cancer", "Hormonal imbalance", "Endometriosis"}},
	{"menstrual pain", []string{"Endometriosis", "Adenomyosis", "Pelvic inflammatory disease", "Fibroids", "Premenstrual syndrome"}},
	{"abnormal vaginal discharge", []string{"Bacterial vaginosis", "Candidiasis", "Trichomoniasis", "Chlamydia", "Gonorrhea"}},
	{"breast lump", []string{"Breast cyst", "Fibroadenoma", "Breast cancer", "Fibrocystic changes", "Mastitis"}},
	{"nipple discharge", []string{"Intraductal papilloma", "Fibrocystic changes", "Breast cancer", "Medications", "Hormonal imbalance"}},

	// specific
	{"high fever", []string{"Bacterial infection", "Pneumonia", "Meningitis", "Sepsis", "Malaria"}},
	{"dehydration", []string{"Gastroenteritis", "Diarrhea", "Vomiting", "Heat stroke", "Uncontrolled diabetes"}},
	{"excessive sleepiness", []string{"Sleep apnea", "Narcolepsy", "Depression", "Hypothyroidism", "Vitamin B12 deficiency"}},
	{"difficulty concentrating", []string{"ADHD", "Anxiety", "Depression", "Sleep disorder", "Medication side effect"}},
	{"snoring", []string{"Sleep apnea", "Obesity", "Nasal polyps", "Deviated septum", "Alcohol use"}},
	{"loss of taste", []string{"COVID-19", "Common cold", "Sinusitis", "Medications", "Zinc deficiency"}},
	{"loss of smell", []string{"COVID-19", "Common cold", "Sinusitis", "Nasal polyps", "Parkinson's disease"}},
	{"toothache", []string{"Tooth decay", "Dental abscess", "Gingivitis", "Periodontitis", "Tooth sensitivity"}},
	{"bleeding gums", []string{"Gingivitis", "Periodontitis", "Clotting disorders", "Leukemia", "Scurvy"}},
	{"stiff neck", []string{"Meningitis", "Muscle strain", "Cervical arthritis", "Fibromyalgia", "Torticollis"}},
	{"restless legs", []string{"Restless legs syndrome", "Iron deficiency", "Pregnancy", "Kidney failure", "Neuropathy"}},
	{"muscle cramps", []string{"Dehydration", "Electrolyte imbalance", "Magnesium deficiency", "Medications", "Restless legs syndrome"}},
	{"swollen lymph nodes", []string{"Infection", "Mononucleosis", "Autoimmune disorders", "Cancer", "HIV/AIDS"}},
	{"cough when lying down", []string{"Gastroesophageal reflux", "Heart failure", "Asthma", "Bronchitis", "Postnasal drip"}},
	{"calf pain", []string{"Deep vein thrombosis", "Muscle cramps", "Shin splints", "Venous insufficiency", "Intermittent claudication"}},
	{"skin discoloration", []string{"Vitiligo", "Fatty liver", "Anemia", "Addison's disease", "Kidney failure"}},
	{"neck lump", []string{"Enlarged lymph nodes", "Goiter", "Thyroglossal cyst", "Thyroid cancer", "Lipoma"}},
	{"breathless when lying down", []string{"Heart failure", "COPD", "Asthma", "Anxiety", "Obesity"}},
	{"sudden confusion", []string{"Stroke", "Transient ischemic attack", "Infection", "Hypoglycemia", "Delirium"}},
}
